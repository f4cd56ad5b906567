package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shelfaware/internal/log"
	"shelfaware/internal/services"
)

// RequireAuth validates the bearer token and stashes the user in Locals.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return fail(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireRole enforces the account role after RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || u.Role != role {
			applog.Security(c, "access.denied.role", map[string]any{"want": role})
			return fail(c, fiber.StatusForbidden, "access denied")
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
