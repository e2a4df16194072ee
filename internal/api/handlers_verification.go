package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/services"
)

func (handler *Handler) RequestVerificationCode(c *fiber.Ctx) error {
	session, _ := currentSession(c)
	channel := c.Params("channel")
	if !services.IsKnownChannel(channel) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	input := requestCodeInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	issue, err := handler.verification.RequestCode(c.UserContext(), session.Username, channel, input.valueFor(channel))
	if err != nil {
		return respondServiceError(c, "verification", "request code", err)
	}
	if err := handler.dispatcher.Dispatch(c.UserContext(), issue); err != nil {
		return respondServiceError(c, "verification", "dispatch code", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":   "Verification code sent.",
		"expiresAt": issue.ExpiresAt,
	})
}

func (handler *Handler) VerifyCode(c *fiber.Ctx) error {
	session, _ := currentSession(c)
	channel := c.Params("channel")
	if !services.IsKnownChannel(channel) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	input := verifyCodeInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	verified, err := handler.verification.VerifyCode(c.UserContext(), session.Username, channel, input.Code)
	if err != nil {
		return respondServiceError(c, "verification", "verify code", err)
	}
	if !verified {
		return apiError(c, fiber.StatusBadRequest, "invalid or expired code")
	}
	return c.JSON(fiber.Map{"verified": true})
}
