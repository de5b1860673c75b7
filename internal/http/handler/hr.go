package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"edms/internal/directory"
)

// DepartmentLookup resolves an employee email to their HR department record.
// Returns 503 when the deployment runs without a directory connection.
func DepartmentLookup(dir directory.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if dir == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "directory unavailable")
		}
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
		}

		dep, err := dir.DepartmentByEmail(c.UserContext(), email)
		if err != nil {
			if errors.Is(err, directory.ErrEmployeeNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "employee not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(dep)
	}
}
