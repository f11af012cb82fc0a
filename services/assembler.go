package services

import (
	"context"
	"strings"
	"time"

	"staffhub-backend/database"
	"staffhub-backend/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMaxAttempts = 5

// CreateReceiptInput is the body of a create-receipt request.
type CreateReceiptInput struct {
	Name     string        `json:"name" validate:"required"`
	Location string        `json:"location" validate:"required"`
	Services []LineRequest `json:"services" validate:"dive"`
}

type AssemblerOptions struct {
	Location    *time.Location
	MaxAttempts int
	Now         func() time.Time
}

// ReceiptAssembler creates a receipt with all of its lines atomically.
type ReceiptAssembler struct {
	db   *gorm.DB
	log  *zap.Logger
	seq  SequenceGenerator
	opts AssemblerOptions
}

func NewReceiptAssembler(db *gorm.DB, log *zap.Logger, opts AssemblerOptions) *ReceiptAssembler {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceiptAssembler{
		db:   db,
		log:  log,
		seq:  SequenceGenerator{Location: opts.Location},
		opts: opts,
	}
}

// Create persists a new PENDING receipt and returns it with lines and their services loaded.
func (a *ReceiptAssembler) Create(ctx context.Context, in CreateReceiptInput) (*models.Receipt, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" {
		return nil, Validation("name is required")
	}
	if in.Location == "" {
		return nil, Validation("location is required")
	}

	var receipt *models.Receipt
	err := retryOnConflict(ctx, a.opts.MaxAttempts, func(attempt int) error {
		r, err := a.createOnce(ctx, in)
		if err != nil {
			if database.IsUniqueViolation(err) {
				a.log.Warn("receipt number taken, retrying",
					zap.Int("attempt", attempt), zap.Int("max_attempts", a.opts.MaxAttempts))
			}
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out models.Receipt
	if err := a.db.WithContext(ctx).Preload("Lines", orderByID).Preload("Lines.Service").First(&out, receipt.ID).Error; err != nil {
		return nil, Persistence("reload receipt", err)
	}
	return &out, nil
}

func (a *ReceiptAssembler) createOnce(ctx context.Context, in CreateReceiptInput) (*models.Receipt, error) {
	var receipt models.Receipt
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := a.opts.Now().UTC()
		number, err := a.seq.Next(tx, now)
		if err != nil {
			return err
		}

		receipt = models.Receipt{
			Name:          in.Name,
			Location:      in.Location,
			ReceiptNumber: number,
			TotalAmount:   decimal.Zero,
			Status:        models.StatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		catalog := NewCatalog(tx)
		total := decimal.Zero
		for _, req := range in.Services {
			line, err := BuildLine(ctx, catalog, req)
			if err != nil {
				return err
			}
			row := models.ReceiptLine{
				ReceiptID:            receipt.ID,
				ServiceID:            line.ServiceID,
				Quantity:             line.Quantity,
				PriceAtTimeOfService: line.PriceAtTimeOfService,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			total = total.Add(line.LineTotal)
		}

		receipt.TotalAmount = total
		return tx.Model(&receipt).Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// retryOnConflict runs fn until it succeeds, fails with something other than a unique
// violation, or attempts run out. Unclassified errors come back as persistence errors.
func retryOnConflict(ctx context.Context, attempts int, fn func(attempt int) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Persistence("create receipt", ctxErr)
		}
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			if KindOf(err) != KindUnknown {
				return err
			}
			return Persistence("create receipt", err)
		}
	}
	return &Error{
		Kind:    KindConflict,
		Message: "could not allocate a unique receipt number, please retry",
		Err:     err,
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
