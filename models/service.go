package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a sellable catalog entry. Its price may change; receipts keep their own snapshot.
type Service struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"not null"`
	CategoryID uint            `json:"categoryId" gorm:"not null;index"`
	Category   *Category       `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null;check:chk_services_price_nonneg,price >= 0"`
	IsActive   bool            `json:"isActive" gorm:"not null"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
