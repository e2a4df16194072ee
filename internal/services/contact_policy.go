package services

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/terraincognita07/accounts/internal/models"
)

const (
	MaxDisplayNameLength = 64
	MaxBioLength         = 500
	MaxProfileTextLength = 128
	MaxAvatarURLLength   = 512
	MaxEmailLength       = 254
)

var phoneE164Pattern = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

func NormalizeContact(channel string, raw string) (string, error) {
	switch channel {
	case models.ChannelEmail:
		return normalizeEmail(raw)
	case models.ChannelPhone:
		return normalizePhone(raw)
	default:
		return "", fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, channel)
	}
}

func IsKnownChannel(channel string) bool {
	return channel == models.ChannelEmail || channel == models.ChannelPhone
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email || len(email) > MaxEmailLength {
		return "", fmt.Errorf("%w: email address is not valid", ErrInvalidInput)
	}
	return email, nil
}

func normalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}
	if !phoneE164Pattern.MatchString(phone) {
		return "", fmt.Errorf("%w: phone number must be in E.164 format", ErrInvalidInput)
	}
	return phone, nil
}

func normalizeProfileText(field string, raw string, limit int) (string, error) {
	value := strings.TrimSpace(raw)
	if utf8.RuneCountInString(value) > limit {
		return "", fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, limit)
	}
	return value, nil
}

func normalizeTimezone(raw string) (string, error) {
	value, err := normalizeProfileText("timezone", raw, MaxProfileTextLength)
	if err != nil || value == "" {
		return value, err
	}
	if _, err := time.LoadLocation(value); err != nil {
		return "", fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, value)
	}
	return value, nil
}

func normalizeAvatarURL(raw string) (string, error) {
	value, err := normalizeProfileText("avatarUrl", raw, MaxAvatarURLLength)
	if err != nil || value == "" {
		return value, err
	}
	parsed, err := url.Parse(value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: avatarUrl must be an http or https URL", ErrInvalidInput)
	}
	return value, nil
}
