// handlers/respond.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"questcraft/services"
)

// fail maps engine errors onto JSON error responses.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(services.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
