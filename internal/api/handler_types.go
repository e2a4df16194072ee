package api

import (
	"context"
	"time"

	"github.com/terraincognita07/accounts/internal/models"
	"github.com/terraincognita07/accounts/internal/services"
)

const (
	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type CodeDispatcher interface {
	Dispatch(ctx context.Context, issue services.CodeIssue) error
}

type Handler struct {
	sessions      *services.SessionService
	auth          *services.AuthService
	profiles      *services.ProfileService
	verification  *services.VerificationService
	notifications *services.NotificationService
	dispatcher    CodeDispatcher
	cookieSecure  bool
	loginLimiter  *attemptLimiter
	now           func() time.Time
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type requestCodeInput struct {
	Email     string `json:"email"`
	PhoneE164 string `json:"phoneE164"`
}

func (input requestCodeInput) valueFor(channel string) string {
	if channel == models.ChannelPhone {
		return input.PhoneE164
	}
	return input.Email
}

type verifyCodeInput struct {
	Code string `json:"code"`
}

type accountEventView struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}
