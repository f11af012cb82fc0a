package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

// Healthz pings the database with SELECT 1.
func (hc *HealthController) Healthz(c *fiber.Ctx) error {
	var one int
	if err := hc.DB.WithContext(c.UserContext()).Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
