package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/models"
	"github.com/terraincognita07/accounts/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authenticateRequest falls back to the bearer token when the session cookie
// does not validate.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.Session, error) {
	candidates := []string{strings.TrimSpace(c.Cookies(sessionCookieName)), bearerToken(c)}

	for _, token := range candidates {
		if token == "" {
			continue
		}
		session, err := handler.sessions.Validate(c.UserContext(), token)
		if err == nil {
			return &session, nil
		}
		if !errors.Is(err, services.ErrUnauthenticated) {
			return nil, err
		}
	}
	return nil, services.ErrUnauthenticated
}
