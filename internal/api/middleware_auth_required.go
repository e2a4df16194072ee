package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/services"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	session, err := handler.authenticateRequest(c)
	if err != nil {
		if !errors.Is(err, services.ErrUnauthenticated) {
			return respondServiceError(c, "auth", "validate session", err)
		}
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextSessionKey, session)
	return c.Next()
}
