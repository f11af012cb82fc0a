package services

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"staffhub-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextReceiptNumber(t *testing.T) {
	day := time.Date(2026, 3, 7, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		last string
		want string
	}{
		{"first of the day", "", "260307-0001"},
		{"increments", "260307-0001", "260307-0002"},
		{"carries digits", "260307-0999", "260307-1000"},
		{"last slot", "260307-9998", "260307-9999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextReceiptNumber(day, tt.last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextReceiptNumberMalformed(t *testing.T) {
	day := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	for _, last := range []string{"garbage", "260307-", "260307-00a1", "260307-0000", "2603070001", "260307-+001", "260306-0004", "261399-0001"} {
		t.Run(last, func(t *testing.T) {
			_, err := NextReceiptNumber(day, last)
			var mss *MalformedSequenceStateError
			require.True(t, errors.As(err, &mss), "got %v", err)
			assert.Equal(t, last, mss.ReceiptNumber)
			assert.Equal(t, KindDataIntegrity, KindOf(err))
		})
	}
}

func TestNextReceiptNumberExhausted(t *testing.T) {
	day := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	_, err := NextReceiptNumber(day, "260307-9999")
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestSequenceGeneratorUsesBusinessDay(t *testing.T) {
	db := newDB(t)
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 20:00 UTC on Oct 14 is already Oct 15 in Tokyo.
	now := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)
	gen := SequenceGenerator{Location: loc}

	got, err := gen.Next(db, now)
	require.NoError(t, err)
	assert.Equal(t, "261015-0001", got)

	prior := models.Receipt{Name: "n", Location: "l", ReceiptNumber: got, Status: models.StatusPending, TotalAmount: decimal.Zero, CreatedAt: now}
	require.NoError(t, db.Create(&prior).Error)

	got, err = gen.Next(db, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "261015-0002", got)
}

func TestSequenceGeneratorIgnoresOtherDays(t *testing.T) {
	db := newDB(t)
	yesterday := testNow.AddDate(0, 0, -1)
	old := models.Receipt{Name: "n", Location: "l", ReceiptNumber: "261014-0042", Status: models.StatusPaid, TotalAmount: decimal.Zero, CreatedAt: yesterday}
	require.NoError(t, db.Create(&old).Error)

	got, err := SequenceGenerator{}.Next(db, testNow)
	require.NoError(t, err)
	assert.Equal(t, "261015-0001", got)
}

func TestParseReceiptNumber(t *testing.T) {
	prefix, counter, err := ParseReceiptNumber("261015-0042")
	require.NoError(t, err)
	assert.Equal(t, "261015", prefix)
	assert.Equal(t, 42, counter)
}
