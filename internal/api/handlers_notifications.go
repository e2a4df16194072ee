package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	session, _ := currentSession(c)

	notifications, err := handler.notifications.List(c.UserContext(), session.Username)
	if err != nil {
		return respondServiceError(c, "notifications", "list", err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

func (handler *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	session, _ := currentSession(c)

	if err := handler.notifications.MarkRead(c.UserContext(), session.Username, c.Params("id")); err != nil {
		return respondServiceError(c, "notifications", "mark read", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
