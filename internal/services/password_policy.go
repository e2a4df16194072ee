package services

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const MinAdminPasswordLength = 8

var ErrWeakPassword = fmt.Errorf("%w: weak password", ErrInvalidInput)

func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinAdminPasswordLength {
		return fmt.Errorf("%w: use at least %d characters", ErrWeakPassword, MinAdminPasswordLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
		hasDigit = hasDigit || unicode.IsDigit(char)
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("%w: add an upper-case letter", ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: add a lower-case letter", ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: add a digit", ErrWeakPassword)
	}
	return nil
}
