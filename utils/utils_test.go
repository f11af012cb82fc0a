package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type createDTO struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Count int             `json:"count"`
}

type patchDTO struct {
	Name       *string          `json:"name"`
	CategoryID *uint            `json:"categoryId"`
	Price      *decimal.Decimal `json:"price"`
	IsActive   *bool            `json:"isActive"`
	Ignored    string           `json:"ignored"`
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "10.13", Round2(decimal.RequireFromString("10.125")).String())
	assert.Equal(t, "10.5", Round2(decimal.RequireFromString("10.5")).String())
}

func TestNormalizeDTO(t *testing.T) {
	dto := createDTO{Name: "  Haircut ", Price: decimal.RequireFromString("19.999"), Count: 3}
	NormalizeDTO(&dto)
	assert.Equal(t, "Haircut", dto.Name)
	assert.Equal(t, "20", dto.Price.String())
	assert.Equal(t, 3, dto.Count)

	// Non-pointer input is ignored.
	NormalizeDTO(dto)
}

func TestNormalizePtrDTO(t *testing.T) {
	name := " Color "
	price := decimal.RequireFromString("5.555")
	dto := patchDTO{Name: &name, Price: &price}
	NormalizePtrDTO(&dto)
	assert.Equal(t, "Color", *dto.Name)
	assert.Equal(t, "5.56", dto.Price.String())
	assert.Nil(t, dto.IsActive)
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name := "Color"
	cat := uint(7)
	active := false
	dto := patchDTO{Name: &name, CategoryID: &cat, IsActive: &active, Ignored: "x"}

	got := UpdatesFromPtrDTO(&dto, map[string]string{"name": "title"})
	assert.Equal(t, map[string]any{"title": "Color", "category_id": uint(7), "is_active": false}, got)
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "category_id", SnakeCase("categoryId"))
	assert.Equal(t, "is_active", SnakeCase("isActive"))
	assert.Equal(t, "name", SnakeCase("name"))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 3, ParseIntDefault(" 3 ", 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1))
	assert.Equal(t, 1, ParseIntDefault("-2", 1))
	assert.Equal(t, 15, ParseIntDefault("", 15))
}
