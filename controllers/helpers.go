package controllers

import (
	"staffhub-backend/services"

	"github.com/gofiber/fiber/v2"
)

// paramID reads the positive integer :id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, services.Validation("invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}
