package services

import (
	"context"
	"testing"
	"time"

	"staffhub-backend/database/dbtest"
	"staffhub-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type catalogFixture struct {
	hair, color      models.Category
	cut, tint, retro models.Service // retro is inactive
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()
	f := catalogFixture{
		hair:  models.Category{Name: "Hair", IsActive: true},
		color: models.Category{Name: "Color", IsActive: true},
	}
	require.NoError(t, db.Create(&f.hair).Error)
	require.NoError(t, db.Create(&f.color).Error)

	f.cut = models.Service{Name: "Cut", CategoryID: f.hair.ID, Price: decimal.RequireFromString("10.50"), IsActive: true}
	f.tint = models.Service{Name: "Tint", CategoryID: f.color.ID, Price: decimal.RequireFromString("2.25"), IsActive: true}
	f.retro = models.Service{Name: "Perm", CategoryID: f.hair.ID, Price: decimal.RequireFromString("30"), IsActive: false}
	require.NoError(t, db.Create(&f.cut).Error)
	require.NoError(t, db.Create(&f.tint).Error)
	require.NoError(t, db.Create(&f.retro).Error)
	return f
}

func newAssembler(db *gorm.DB, now time.Time) *ReceiptAssembler {
	return NewReceiptAssembler(db, zap.NewNop(), AssemblerOptions{
		Location:    time.UTC,
		MaxAttempts: 3,
		Now:         func() time.Time { return now },
	})
}

func qty(n int) *int { return &n }

func mustCreate(t *testing.T, a *ReceiptAssembler, in CreateReceiptInput) *models.Receipt {
	t.Helper()
	r, err := a.Create(context.Background(), in)
	require.NoError(t, err)
	return r
}

func newDB(t *testing.T) *gorm.DB {
	return dbtest.New(t)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
