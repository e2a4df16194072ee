package api

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func respondServiceError(c *fiber.Ctx, area string, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return apiError(c, fiber.StatusBadRequest, clientMessage(err, services.ErrInvalidInput))
	case errors.Is(err, services.ErrUnauthenticated):
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		return apiError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrAccountNotFound):
		return apiError(c, fiber.StatusNotFound, "account not found")
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "notification not found")
	case errors.Is(err, services.ErrUsernameTaken):
		return apiError(c, fiber.StatusConflict, "username already taken")
	case errors.Is(err, services.ErrRateLimited):
		return apiError(c, fiber.StatusTooManyRequests, "verification code requested too recently")
	default:
		log.Printf("[%s][%s] %v", area, action, err)
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func clientMessage(err error, sentinel error) string {
	message := err.Error()
	if strings.HasPrefix(message, sentinel.Error()) {
		return message
	}
	return sentinel.Error()
}

func parseJSONBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(target); err != nil {
		return services.ErrInvalidInput
	}
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		status = fiberError.Code
		message = strings.ToLower(fiberError.Message)
	} else {
		log.Printf("[http][unhandled] %s %s: %v", c.Method(), c.Path(), err)
	}
	return apiError(c, status, message)
}
