package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/models"
)

func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	session, ok := currentSession(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if session.Role != models.RoleAdmin {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
