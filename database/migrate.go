package database

import (
	"fmt"

	"staffhub-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns, unique indexes, CHECK constraints from model tags)
// - Composite indexes for the receipt listing and statistics queries
// - Postgres only: NOT NULL on the receipt line foreign keys
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Category{},
			&models.Service{},
			&models.Receipt{},
			&models.ReceiptLine{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_receipts_created_at_status ON receipts (created_at, status)`,
			`CREATE INDEX IF NOT EXISTS idx_receipt_services_receipt_service ON receipt_services (receipt_id, service_id)`,
			`CREATE INDEX IF NOT EXISTS idx_services_category_active ON services (category_id, is_active)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}

		notNulls := []string{
			`ALTER TABLE receipt_services ALTER COLUMN receipt_id SET NOT NULL`,
			`ALTER TABLE receipt_services ALTER COLUMN service_id SET NOT NULL`,
			`ALTER TABLE services         ALTER COLUMN category_id SET NOT NULL`,
		}
		for _, stmt := range notNulls {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("not null migration failed on: %s - %w", stmt, err)
			}
		}
		return nil
	})
}
