package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotFound           = errors.New("notification not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrRateLimited        = errors.New("verification code requested too recently")
	ErrSessionCollision   = errors.New("session id collision")
)

func accountLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAccountNotFound
	}
	return err
}

func profileOperationError(action string, err error) error {
	err = accountLookupError(err)
	for _, known := range []error{ErrAccountNotFound, ErrInvalidInput, ErrRateLimited} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}
