package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptStatus string

const (
	StatusPending ReceiptStatus = "PENDING"
	StatusPaid    ReceiptStatus = "PAID"
)

func (s ReceiptStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Receipt owns its lines; TotalAmount is the sum of quantity * PriceAtTimeOfService over Lines.
type Receipt struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"not null"`
	Location      string          `json:"location" gorm:"not null"`
	ReceiptNumber string          `json:"receiptNumber" gorm:"size:16;uniqueIndex;not null"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:numeric(10,2);not null;check:chk_receipts_total_nonneg,total_amount >= 0"`
	Status        ReceiptStatus   `json:"status" gorm:"size:16;not null;default:PENDING;check:chk_receipts_status,status IN ('PENDING','PAID')"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Lines []ReceiptLine `json:"receiptServices" gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// ReceiptLine freezes the service price at the moment of sale.
type ReceiptLine struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	ReceiptID            uint            `json:"receiptId" gorm:"not null;index"`
	ServiceID            uint            `json:"serviceId" gorm:"not null;index"`
	Service              *Service        `json:"service,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity             int             `json:"quantity" gorm:"not null;default:1;check:chk_receipt_services_quantity_pos,quantity >= 1"`
	PriceAtTimeOfService decimal.Decimal `json:"priceAtTimeOfService" gorm:"type:numeric(10,2);not null"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func (ReceiptLine) TableName() string {
	return "receipt_services"
}

// LineTotal is quantity * PriceAtTimeOfService.
func (l ReceiptLine) LineTotal() decimal.Decimal {
	return l.PriceAtTimeOfService.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
