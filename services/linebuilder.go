package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested service on a new receipt.
type LineRequest struct {
	ServiceID uint `json:"id" validate:"required"`
	Quantity  *int `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// PricedLine is a resolved line with the price captured at the time of sale.
type PricedLine struct {
	ServiceID            uint
	Quantity             int
	PriceAtTimeOfService decimal.Decimal
	LineTotal            decimal.Decimal
}

// BuildLine resolves req against the catalog. It has no side effects.
func BuildLine(ctx context.Context, lookup ServiceLookup, req LineRequest) (PricedLine, error) {
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		return PricedLine{}, Validation("quantity for service %d must be a positive integer", req.ServiceID)
	}

	svc, err := lookup.FindServiceByID(ctx, req.ServiceID)
	if err != nil {
		return PricedLine{}, err
	}
	if svc == nil {
		return PricedLine{}, &ServiceNotFoundError{ServiceID: req.ServiceID}
	}
	if !svc.IsActive {
		return PricedLine{}, Validation("service %d is inactive", req.ServiceID)
	}

	return PricedLine{
		ServiceID:            svc.ID,
		Quantity:             qty,
		PriceAtTimeOfService: svc.Price,
		LineTotal:            svc.Price.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}
