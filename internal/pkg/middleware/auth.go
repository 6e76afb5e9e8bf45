package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nimbusdb/nimbus/internal/pkg/usercontext"
)

// RequireAuth ensures an authenticated caller for API routes and returns a
// JSON 401 when the identity headers are missing.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
