package services

import (
	"context"
	"errors"
	"testing"

	"staffhub-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	services map[uint]*models.Service
	err      error
}

func (f fakeLookup) FindServiceByID(_ context.Context, id uint) (*models.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.services[id], nil
}

func TestBuildLine(t *testing.T) {
	lookup := fakeLookup{services: map[uint]*models.Service{
		1: {ID: 1, Price: decimal.RequireFromString("12.40"), IsActive: true},
		2: {ID: 2, Price: decimal.RequireFromString("5"), IsActive: false},
	}}
	ctx := context.Background()

	t.Run("quantity defaults to one", func(t *testing.T) {
		line, err := BuildLine(ctx, lookup, LineRequest{ServiceID: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity)
		requireDecimal(t, "12.40", line.PriceAtTimeOfService)
		requireDecimal(t, "12.40", line.LineTotal)
	})

	t.Run("multiplies by quantity", func(t *testing.T) {
		line, err := BuildLine(ctx, lookup, LineRequest{ServiceID: 1, Quantity: qty(3)})
		require.NoError(t, err)
		assert.Equal(t, uint(1), line.ServiceID)
		requireDecimal(t, "37.20", line.LineTotal)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := BuildLine(ctx, lookup, LineRequest{ServiceID: 1, Quantity: qty(0)})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := BuildLine(ctx, lookup, LineRequest{ServiceID: 9})
		var snf *ServiceNotFoundError
		require.True(t, errors.As(err, &snf))
		assert.Equal(t, uint(9), snf.ServiceID)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("inactive service", func(t *testing.T) {
		_, err := BuildLine(ctx, lookup, LineRequest{ServiceID: 2})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		boom := Persistence("load service", errors.New("db down"))
		_, err := BuildLine(ctx, fakeLookup{err: boom}, LineRequest{ServiceID: 1})
		assert.ErrorIs(t, err, boom)
	})
}
