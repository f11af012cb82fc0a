package services

import (
	"context"
	"strings"

	"staffhub-backend/database"
	"staffhub-backend/models"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

type ListReceiptsQuery struct {
	Page   int
	Limit  int
	Status string
}

type PageMeta struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"perPage"`
	CurrentPage int   `json:"currentPage"`
	LastPage    int   `json:"lastPage"`
	FirstPage   int   `json:"firstPage"`
}

type ReceiptPage struct {
	Meta PageMeta         `json:"meta"`
	Data []models.Receipt `json:"data"`
}

// Receipts covers reads and status changes of existing receipts.
type Receipts struct {
	db *gorm.DB
}

func NewReceipts(db *gorm.DB) *Receipts {
	return &Receipts{db: db}
}

func (r *Receipts) Get(ctx context.Context, id uint) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).Preload("Lines", orderByID).Preload("Lines.Service").First(&receipt, id).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFound("receipt not found")
		}
		return nil, Persistence("load receipt", err)
	}
	return &receipt, nil
}

// List returns receipts newest first, with their lines, one page at a time.
func (r *Receipts) List(ctx context.Context, q ListReceiptsQuery) (*ReceiptPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	base := r.db.WithContext(ctx).Model(&models.Receipt{})
	if status := strings.TrimSpace(q.Status); status != "" {
		if !models.ReceiptStatus(status).Valid() {
			return nil, Validation("invalid status. Must be PENDING or PAID")
		}
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Persistence("count receipts", err)
	}

	lastPage := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if lastPage < 1 {
		lastPage = 1
	}

	// Pages past the end are empty; skipping the query also keeps the offset from overflowing.
	receipts := []models.Receipt{}
	if q.Page <= lastPage {
		err := base.Session(&gorm.Session{}).
			Preload("Lines", orderByID).
			Preload("Lines.Service").
			Order("created_at DESC").Order("id DESC").
			Offset((q.Page - 1) * q.Limit).
			Limit(q.Limit).
			Find(&receipts).Error
		if err != nil {
			return nil, Persistence("list receipts", err)
		}
	}

	return &ReceiptPage{
		Meta: PageMeta{
			Total:       total,
			PerPage:     q.Limit,
			CurrentPage: q.Page,
			LastPage:    lastPage,
			FirstPage:   1,
		},
		Data: receipts,
	}, nil
}

// UpdateStatus sets the receipt status. PAID receipts may be moved back to PENDING.
func (r *Receipts) UpdateStatus(ctx context.Context, id uint, status string) (*models.Receipt, error) {
	s := models.ReceiptStatus(strings.TrimSpace(status))
	if !s.Valid() {
		return nil, Validation("invalid status. Must be PENDING or PAID")
	}

	var receipt models.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, NotFound("receipt not found")
		}
		return nil, Persistence("load receipt", err)
	}
	if err := r.db.WithContext(ctx).Model(&receipt).Update("status", s).Error; err != nil {
		return nil, Persistence("update receipt status", err)
	}
	return r.Get(ctx, id)
}
