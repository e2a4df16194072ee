package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/accounts/internal/models"
)

func (handler *Handler) setSessionCookies(c *fiber.Ctx, session models.Session) {
	maxAge := int(handler.sessions.TTL() / time.Second)

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     roleCookieName,
		Value:    session.Role,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
}

func (handler *Handler) clearSessionCookies(c *fiber.Ctx) {
	expired := time.Unix(0, 0)
	for _, name := range []string{sessionCookieName, roleCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  expired,
			HTTPOnly: name == sessionCookieName,
			Secure:   handler.cookieSecure,
			SameSite: "Lax",
		})
	}
}
