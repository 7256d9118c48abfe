package handler

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly guards the admin coupon endpoints with a shared token carried
// in the X-Admin-Token header. An empty configured token disables the
// surface entirely rather than leaving it open.
func AdminOnly(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access disabled"})
		}
		got := c.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
