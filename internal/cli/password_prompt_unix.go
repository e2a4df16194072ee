//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func withEchoDisabled(stdin *os.File, read func() error) error {
	if stdin == nil {
		return errors.New("stdin unavailable")
	}

	fd := int(stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	silent := *saved
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &silent); err != nil {
		return err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, saved)
	}()

	return read()
}
