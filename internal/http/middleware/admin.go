package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminKeyHeader carries the operator credential for the administrative surface.
const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards the administrative routes with a shared operator key.
// This tier is coarser than the per-document policy: it bypasses ownership
// checks downstream but never the lifecycle state machine. An unconfigured
// key disables the surface entirely rather than leaving it open.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return fiber.NewError(fiber.StatusNotFound, "admin surface disabled")
		}
		supplied := c.Get(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin key")
		}
		return c.Next()
	}
}
