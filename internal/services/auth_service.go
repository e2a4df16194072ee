package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/accounts/internal/models"
	"github.com/terraincognita07/accounts/internal/security"
)

const (
	MaxUsernameLength         = 64
	DefaultEventPageSize      = 50
	MaxEventPageSize          = 200
	TemporaryPasswordLength   = 14
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

type AccountRepository interface {
	AccountFinder
	CreateWithEvent(ctx context.Context, account *models.Account, event *models.AccountEvent) (bool, error)
	UpdatePasswordHash(ctx context.Context, username string, passwordHash string) error
}

type EventRepository interface {
	ListRecent(ctx context.Context, limit int) ([]models.AccountEvent, error)
}

type SignupRecorder interface {
	RecordSignup(username string, role string)
}

type AuthService struct {
	accounts AccountRepository
	events   EventRepository
	hasher   SecretHasher
	signups  SignupRecorder
	now      func() time.Time
}

func NewAuthService(accounts AccountRepository, events EventRepository, hasher SecretHasher, signups SignupRecorder) *AuthService {
	return &AuthService{
		accounts: accounts,
		events:   events,
		hasher:   hasher,
		signups:  signups,
		now:      time.Now,
	}
}

func (service *AuthService) WithClock(now func() time.Time) *AuthService {
	service.now = now
	return service
}

func (service *AuthService) Signup(ctx context.Context, rawUsername string, password string) (models.Account, error) {
	username, err := normalizeUsername(rawUsername)
	if err != nil {
		return models.Account{}, err
	}
	if password == "" {
		return models.Account{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	account, err := service.create(ctx, username, password, models.RoleMember, models.EventKindSignup)
	if err != nil {
		return models.Account{}, err
	}
	if service.signups != nil {
		service.signups.RecordSignup(account.Username, account.Role)
	}
	return account, nil
}

// Authenticate checks the credentials and the role the caller claims. An
// empty expected role means member.
func (service *AuthService) Authenticate(ctx context.Context, rawUsername string, password string, expectedRole string) (models.Account, error) {
	username := strings.TrimSpace(rawUsername)
	if username == "" {
		return models.Account{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	role := strings.ToLower(strings.TrimSpace(expectedRole))
	if role == "" {
		role = models.RoleMember
	}

	account, err := service.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(accountLookupError(err), ErrAccountNotFound) {
			return models.Account{}, ErrInvalidCredentials
		}
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !service.hasher.Matches(account.PasswordHash, password) {
		return models.Account{}, ErrInvalidCredentials
	}
	if account.Role != role {
		return models.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (service *AuthService) CreateAdmin(ctx context.Context, rawUsername string, password string) (models.Account, error) {
	username, err := normalizeUsername(rawUsername)
	if err != nil {
		return models.Account{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.Account{}, err
	}
	return service.create(ctx, username, password, models.RoleAdmin, models.EventKindAdminCreated)
}

func (service *AuthService) ResetPassword(ctx context.Context, rawUsername string) (string, error) {
	username := strings.TrimSpace(rawUsername)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	temporaryPassword, err := security.RandomString(TemporaryPasswordLength, temporaryPasswordAlphabet)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	passwordHash, err := service.hasher.Hash(temporaryPassword)
	if err != nil {
		return "", err
	}

	if err := service.accounts.UpdatePasswordHash(ctx, username, passwordHash); err != nil {
		return "", accountLookupError(err)
	}
	return temporaryPassword, nil
}

func (service *AuthService) RecentEvents(ctx context.Context, limit int) ([]models.AccountEvent, error) {
	switch {
	case limit <= 0:
		limit = DefaultEventPageSize
	case limit > MaxEventPageSize:
		limit = MaxEventPageSize
	}
	return service.events.ListRecent(ctx, limit)
}

func (service *AuthService) create(ctx context.Context, username string, password string, role string, eventKind string) (models.Account, error) {
	passwordHash, err := service.hasher.Hash(password)
	if err != nil {
		return models.Account{}, err
	}

	createdAt := service.now().UTC()
	account := models.Account{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
	}
	event := models.AccountEvent{
		Username:  username,
		Role:      role,
		Kind:      eventKind,
		CreatedAt: createdAt,
	}

	created, err := service.accounts.CreateWithEvent(ctx, &account, &event)
	if err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	if !created {
		return models.Account{}, ErrUsernameTaken
	}
	return account, nil
}

func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, MaxUsernameLength)
	}
	return username, nil
}
