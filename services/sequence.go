package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"staffhub-backend/models"

	"gorm.io/gorm"
)

const (
	receiptDateLayout = "060102"
	maxDailySequence  = 9999
)

// SequenceGenerator hands out daily receipt numbers of the form YYMMDD-NNNN.
// It must run inside the transaction that inserts the receipt; the unique index on
// receipt_number catches concurrent callers that computed the same counter.
type SequenceGenerator struct {
	Location *time.Location
}

// Next returns the receipt number following the last one issued on now's business day.
func (g SequenceGenerator) Next(tx *gorm.DB, now time.Time) (string, error) {
	day := now.In(g.location())
	start, end := dayBounds(day)

	var last models.Receipt
	err := tx.Select("id", "receipt_number").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("id DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return "", Persistence("lookup latest receipt number", err)
	}
	return NextReceiptNumber(day, last.ReceiptNumber)
}

func (g SequenceGenerator) location() *time.Location {
	if g.Location == nil {
		return time.UTC
	}
	return g.Location
}

// NextReceiptNumber computes the number after last for day. An empty last starts the day at 1.
func NextReceiptNumber(day time.Time, last string) (string, error) {
	if last == "" {
		return FormatReceiptNumber(day, 1), nil
	}

	prefix, counter, err := ParseReceiptNumber(last)
	if err != nil {
		return "", err
	}
	if prefix != day.Format(receiptDateLayout) {
		return "", &MalformedSequenceStateError{ReceiptNumber: last}
	}
	if counter >= maxDailySequence {
		return "", Conflict("daily receipt sequence exhausted for %s", day.Format(time.DateOnly))
	}
	return FormatReceiptNumber(day, counter+1), nil
}

func FormatReceiptNumber(day time.Time, counter int) string {
	return fmt.Sprintf("%s-%04d", day.Format(receiptDateLayout), counter)
}

// ParseReceiptNumber splits a stored number into its date prefix and counter.
func ParseReceiptNumber(s string) (string, int, error) {
	prefix, suffix, ok := strings.Cut(s, "-")
	if !ok || len(prefix) != len(receiptDateLayout) || len(suffix) != 4 {
		return "", 0, &MalformedSequenceStateError{ReceiptNumber: s}
	}
	if _, err := time.Parse(receiptDateLayout, prefix); err != nil {
		return "", 0, &MalformedSequenceStateError{ReceiptNumber: s}
	}
	if strings.IndexFunc(suffix, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return "", 0, &MalformedSequenceStateError{ReceiptNumber: s}
	}
	counter, err := strconv.Atoi(suffix)
	if err != nil || counter < 1 {
		return "", 0, &MalformedSequenceStateError{ReceiptNumber: s}
	}
	return prefix, counter, nil
}

// dayBounds returns [midnight, next midnight) of t's calendar day in t's location, as UTC instants.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
