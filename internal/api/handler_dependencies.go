package api

import (
	"time"

	"github.com/terraincognita07/accounts/internal/config"
	"github.com/terraincognita07/accounts/internal/db"
	"github.com/terraincognita07/accounts/internal/security"
	"github.com/terraincognita07/accounts/internal/services"
	"gorm.io/gorm"
)

type Dependencies struct {
	Repositories  *db.Repositories
	Sessions      *services.SessionService
	Auth          *services.AuthService
	Profiles      *services.ProfileService
	Verification  *services.VerificationService
	Notifications *services.NotificationService
}

func NewDependencies(database *gorm.DB, cfg config.Config) *Dependencies {
	repositories := db.NewRepositories(database)
	hasher := security.NewSecretHasher(cfg.BcryptCost)

	sessions := services.NewSessionService(repositories.Sessions, cfg.SecretKey, cfg.SessionTTL())
	policy := services.VerificationPolicy{
		CodeTTL:     cfg.CodeTTL(),
		Cooldown:    cfg.CodeCooldown(),
		MaxAttempts: cfg.Verification.MaxAttempts,
	}

	return &Dependencies{
		Repositories:  repositories,
		Sessions:      sessions,
		Auth:          services.NewAuthService(repositories.Accounts, repositories.Events, hasher, sessions),
		Profiles:      services.NewProfileService(repositories.Profiles),
		Verification:  services.NewVerificationService(repositories.Profiles, hasher, security.NewCodeGenerator(nil), policy),
		Notifications: services.NewNotificationService(repositories.Accounts, repositories.Notifications),
	}
}

func (deps *Dependencies) WithClock(now func() time.Time) *Dependencies {
	deps.Sessions.WithClock(now)
	deps.Auth.WithClock(now)
	deps.Verification.WithClock(now)
	deps.Notifications.WithClock(now)
	return deps
}

func NewHandler(deps *Dependencies, cookieSecure bool, dispatcher CodeDispatcher) *Handler {
	if dispatcher == nil {
		dispatcher = logDispatcher{}
	}
	return &Handler{
		sessions:      deps.Sessions,
		auth:          deps.Auth,
		profiles:      deps.Profiles,
		verification:  deps.Verification,
		notifications: deps.Notifications,
		dispatcher:    dispatcher,
		cookieSecure:  cookieSecure,
		loginLimiter:  newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
		now:           time.Now,
	}
}

func (handler *Handler) WithClock(now func() time.Time) *Handler {
	handler.now = now
	return handler
}
