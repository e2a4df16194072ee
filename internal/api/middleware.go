package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/models"
)

const (
	sessionCookieName = "session_token"
	roleCookieName    = "session_role"
	contextSessionKey = "current_session"
)

func currentSession(c *fiber.Ctx) (*models.Session, bool) {
	session, ok := c.Locals(contextSessionKey).(*models.Session)
	return session, ok
}
