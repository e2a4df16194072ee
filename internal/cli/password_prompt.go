package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type PasswordPrompt func(label string) (string, error)

func TerminalPrompt(stdin *os.File, out io.Writer) PasswordPrompt {
	reader := bufio.NewReader(stdin)
	return func(label string) (string, error) {
		fmt.Fprint(out, label)

		var secret string
		err := withEchoDisabled(stdin, func() error {
			var readErr error
			secret, readErr = readSecretLine(reader)
			return readErr
		})
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return secret, nil
	}
}

func ReaderPrompt(source io.Reader) PasswordPrompt {
	reader := bufio.NewReader(source)
	return func(string) (string, error) {
		return readSecretLine(reader)
	}
}

func readSecretLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if err != nil && line == "" {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
