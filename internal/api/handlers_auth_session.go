package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/models"
)

func (handler *Handler) Signup(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := parseJSONBody(c, &credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	account, err := handler.auth.Signup(c.UserContext(), credentials.Username, credentials.Password)
	if err != nil {
		return respondServiceError(c, "auth", "signup", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"username": account.Username,
		"message":  "Account created. You can now sign in.",
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials := credentialsInput{}
	if err := parseJSONBody(c, &credentials); err != nil {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	account, err := handler.auth.Authenticate(c.UserContext(), credentials.Username, credentials.Password, strings.TrimSpace(credentials.Role))
	if err != nil {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return respondServiceError(c, "auth", "login", err)
	}

	session, err := handler.sessions.Create(c.UserContext(), account.Username, account.Role)
	if err != nil {
		return respondServiceError(c, "auth", "create session", err)
	}
	handler.loginLimiter.reset(limiterKey)
	handler.setSessionCookies(c, session)

	return c.JSON(fiber.Map{
		"token":    session.Token,
		"role":     session.Role,
		"username": session.Username,
		"message":  loginMessage(session.Role),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if session, ok := currentSession(c); ok {
		if err := handler.sessions.Invalidate(c.UserContext(), session.Token); err != nil {
			return respondServiceError(c, "auth", "logout", err)
		}
	}

	handler.clearSessionCookies(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func loginMessage(role string) string {
	if role == models.RoleAdmin {
		return "Welcome back, admin!"
	}
	return "You are now online."
}
