//go:build windows

package cli

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

func withEchoDisabled(stdin *os.File, read func() error) error {
	if stdin == nil {
		return errors.New("stdin unavailable")
	}

	handle := windows.Handle(stdin.Fd())
	var savedMode uint32
	if err := windows.GetConsoleMode(handle, &savedMode); err != nil {
		return err
	}
	if err := windows.SetConsoleMode(handle, savedMode&^windows.ENABLE_ECHO_INPUT); err != nil {
		return err
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, savedMode)
	}()

	return read()
}
