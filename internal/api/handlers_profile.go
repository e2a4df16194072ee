package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	session, _ := currentSession(c)

	view, err := handler.profiles.GetProfile(c.UserContext(), session.Username)
	if err != nil {
		return respondServiceError(c, "profile", "get", err)
	}
	return c.JSON(view)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	session, _ := currentSession(c)

	update := services.ProfileUpdate{}
	if err := parseJSONBody(c, &update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	view, err := handler.profiles.UpdateProfile(c.UserContext(), session.Username, update)
	if err != nil {
		return respondServiceError(c, "profile", "update", err)
	}
	return c.JSON(view)
}
