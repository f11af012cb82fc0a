package database

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TxLocalsKey is where middlewares.Tx stores the per-request transaction.
const TxLocalsKey = "tx"

// GetDB returns the *gorm.DB a handler should use.
// Prefer an existing per-request TX (middlewares.Tx), else fall back to db bound to the request context.
func GetDB(c *fiber.Ctx, db *gorm.DB) *gorm.DB {
	if v := c.Locals(TxLocalsKey); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return db.WithContext(c.UserContext())
}
