package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/accounts/internal/models"
)

type VerificationPolicy struct {
	CodeTTL     time.Duration
	Cooldown    time.Duration
	MaxAttempts int
}

func DefaultVerificationPolicy() VerificationPolicy {
	return VerificationPolicy{
		CodeTTL:     15 * time.Minute,
		Cooldown:    60 * time.Second,
		MaxAttempts: 5,
	}
}

type CodeIssue struct {
	Channel     string
	Destination string
	Code        string
	ExpiresAt   time.Time
}

type VerificationService struct {
	profiles ProfileRepository
	hasher   SecretHasher
	codes    CodeSource
	policy   VerificationPolicy
	now      func() time.Time
}

func NewVerificationService(profiles ProfileRepository, hasher SecretHasher, codes CodeSource, policy VerificationPolicy) *VerificationService {
	defaults := DefaultVerificationPolicy()
	if policy.CodeTTL <= 0 {
		policy.CodeTTL = defaults.CodeTTL
	}
	if policy.Cooldown < 0 {
		policy.Cooldown = defaults.Cooldown
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaults.MaxAttempts
	}

	return &VerificationService{
		profiles: profiles,
		hasher:   hasher,
		codes:    codes,
		policy:   policy,
		now:      time.Now,
	}
}

func (service *VerificationService) WithClock(now func() time.Time) *VerificationService {
	service.now = now
	return service
}

func (service *VerificationService) Policy() VerificationPolicy {
	return service.policy
}

func (service *VerificationService) RequestCode(ctx context.Context, username string, channel string, rawValue string) (CodeIssue, error) {
	if !IsKnownChannel(channel) {
		return CodeIssue{}, fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, channel)
	}

	code, err := service.codes.Generate()
	if err != nil {
		return CodeIssue{}, err
	}
	codeHash, err := service.hasher.Hash(code)
	if err != nil {
		return CodeIssue{}, err
	}

	now := service.now().UTC()
	issue := CodeIssue{
		Channel:   channel,
		Code:      code,
		ExpiresAt: now.Add(service.policy.CodeTTL),
	}

	_, _, err = service.profiles.Mutate(ctx, username, func(_ models.Account, profile *models.Profile) (bool, error) {
		value, err := NormalizeContact(channel, rawValue)
		if err != nil {
			return false, err
		}

		state := profile.Channel(channel)
		if state.CodeRequestedAt != nil && now.Sub(*state.CodeRequestedAt) < service.policy.Cooldown {
			return false, ErrRateLimited
		}

		if state.AddressValue() != value {
			state.VerifiedAt = nil
			state.Address = &value
		}

		expiresAt := issue.ExpiresAt
		requestedAt := now
		state.CodeHash = codeHash
		state.CodeExpiresAt = &expiresAt
		state.CodeRequestedAt = &requestedAt
		state.CodeAttempts = 0

		issue.Destination = value
		return true, nil
	})
	if err != nil {
		return CodeIssue{}, profileOperationError("request verification code", err)
	}
	return issue, nil
}

// VerifyCode reports whether candidate matches the channel's pending code.
// A wrong guess counts against the code and the code is dropped once the
// attempt limit is reached. Expired or missing codes leave state untouched.
func (service *VerificationService) VerifyCode(ctx context.Context, username string, channel string, candidate string) (bool, error) {
	if !IsKnownChannel(channel) {
		return false, fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, channel)
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	now := service.now().UTC()
	verified := false
	_, _, err := service.profiles.Mutate(ctx, username, func(_ models.Account, profile *models.Profile) (bool, error) {
		state := profile.Channel(channel)
		if !state.HasPendingCode() || !now.Before(*state.CodeExpiresAt) {
			return false, nil
		}

		if !service.hasher.Matches(state.CodeHash, candidate) {
			state.CodeAttempts++
			if state.CodeAttempts >= service.policy.MaxAttempts {
				state.ClearPendingCode()
			}
			return true, nil
		}

		verifiedAt := now
		state.VerifiedAt = &verifiedAt
		state.ClearPendingCode()
		state.CodeRequestedAt = nil
		verified = true
		return true, nil
	})
	if err != nil {
		return false, profileOperationError("verify code", err)
	}
	return verified, nil
}
