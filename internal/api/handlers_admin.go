package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/services"
)

func (handler *Handler) ListAccountEvents(c *fiber.Ctx) error {
	events, err := handler.auth.RecentEvents(c.UserContext(), c.QueryInt("limit", services.DefaultEventPageSize))
	if err != nil {
		return respondServiceError(c, "admin", "list events", err)
	}

	views := make([]accountEventView, 0, len(events))
	for _, event := range events {
		views = append(views, accountEventView{
			Username:  event.Username,
			Role:      event.Role,
			Kind:      event.Kind,
			CreatedAt: event.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"events":            views,
		"signupsSinceStart": handler.sessions.SignupCount(),
	})
}
