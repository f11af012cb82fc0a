package services

import (
	"context"
	"strings"
	"time"

	"staffhub-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatisticsQuery carries raw query-string values; empty dates fall back to the current month.
type StatisticsQuery struct {
	StartDate string
	EndDate   string
	Status    string
}

type DailyStat struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type CategoryStat struct {
	CategoryID uint            `json:"categoryId"`
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
}

type Statistics struct {
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	TotalReceipts     int64           `json:"totalReceipts"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DailyBreakdown    []DailyStat     `json:"dailyBreakdown"`
	CategoryBreakdown []CategoryStat  `json:"categoryBreakdown"`
}

// StatisticsAggregator reports over receipts created in an inclusive date range.
type StatisticsAggregator struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewStatisticsAggregator(db *gorm.DB, loc *time.Location, now func() time.Time) *StatisticsAggregator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &StatisticsAggregator{db: db, loc: loc, now: now}
}

type statsRange struct {
	firstDay, lastDay time.Time // business-day dates, inclusive
	from, to          time.Time // UTC instants, [from, to)
	status            string
}

func (a *StatisticsAggregator) Compute(ctx context.Context, q StatisticsQuery) (*Statistics, error) {
	rng, err := a.resolve(q)
	if err != nil {
		return nil, err
	}
	if rng.lastDay.Before(rng.firstDay) {
		return rng.empty(), nil
	}
	db := a.db.WithContext(ctx)

	var totals struct {
		Count int64
		Total decimal.Decimal
	}
	err = db.Model(&models.Receipt{}).
		Select("COUNT(*) AS count, ROUND(COALESCE(SUM(total_amount), 0), 2) AS total").
		Scopes(rng.scope("receipts")).
		Scan(&totals).Error
	if err != nil {
		return nil, Persistence("aggregate receipt totals", err)
	}

	// The receipt number prefix is the business day the receipt was issued on.
	var daily []struct {
		IssueDay string
		Count    int64
		Total    decimal.Decimal
	}
	err = db.Model(&models.Receipt{}).
		Select("SUBSTR(receipt_number, 1, 6) AS issue_day, COUNT(*) AS count, ROUND(COALESCE(SUM(total_amount), 0), 2) AS total").
		Scopes(rng.scope("receipts")).
		Group("SUBSTR(receipt_number, 1, 6)").
		Order("issue_day").
		Scan(&daily).Error
	if err != nil {
		return nil, Persistence("aggregate daily breakdown", err)
	}

	categories := []CategoryStat{}
	err = db.Table("receipt_services AS rs").
		Select("c.id AS category_id, c.name AS category, ROUND(COALESCE(SUM(rs.quantity * rs.price_at_time_of_service), 0), 2) AS total").
		Joins("JOIN receipts AS r ON r.id = rs.receipt_id").
		Joins("JOIN services AS s ON s.id = rs.service_id").
		Joins("JOIN categories AS c ON c.id = s.category_id").
		Scopes(rng.scope("r")).
		Group("c.id, c.name").
		Order("total DESC").Order("c.name").
		Scan(&categories).Error
	if err != nil {
		return nil, Persistence("aggregate category breakdown", err)
	}

	out := &Statistics{
		StartDate:         rng.firstDay.Format(time.DateOnly),
		EndDate:           rng.lastDay.Format(time.DateOnly),
		TotalReceipts:     totals.Count,
		TotalAmount:       totals.Total,
		DailyBreakdown:    make([]DailyStat, 0, len(daily)),
		CategoryBreakdown: categories,
	}
	for _, d := range daily {
		date := d.IssueDay
		if t, err := time.Parse(receiptDateLayout, d.IssueDay); err == nil {
			date = t.Format(time.DateOnly)
		}
		out.DailyBreakdown = append(out.DailyBreakdown, DailyStat{Date: date, Count: d.Count, Total: d.Total})
	}
	return out, nil
}

func (a *StatisticsAggregator) resolve(q StatisticsQuery) (statsRange, error) {
	today := a.now().In(a.loc)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, a.loc)
	last := first.AddDate(0, 1, -1)

	var err error
	if s := strings.TrimSpace(q.StartDate); s != "" {
		if first, err = parseDate(s, a.loc); err != nil {
			return statsRange{}, Validation("invalid startDate %q, expected YYYY-MM-DD", s)
		}
	}
	if s := strings.TrimSpace(q.EndDate); s != "" {
		if last, err = parseDate(s, a.loc); err != nil {
			return statsRange{}, Validation("invalid endDate %q, expected YYYY-MM-DD", s)
		}
	}
	status := strings.TrimSpace(q.Status)
	if status != "" && !models.ReceiptStatus(status).Valid() {
		return statsRange{}, Validation("invalid status. Must be PENDING or PAID")
	}

	return statsRange{
		firstDay: first,
		lastDay:  last,
		from:     first.UTC(),
		to:       last.AddDate(0, 0, 1).UTC(),
		status:   status,
	}, nil
}

// empty is the report for a range that cannot contain any receipt.
func (r statsRange) empty() *Statistics {
	return &Statistics{
		StartDate:         r.firstDay.Format(time.DateOnly),
		EndDate:           r.lastDay.Format(time.DateOnly),
		TotalAmount:       decimal.Zero,
		DailyBreakdown:    []DailyStat{},
		CategoryBreakdown: []CategoryStat{},
	}
}

func (r statsRange) scope(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(table+".created_at >= ? AND "+table+".created_at < ?", r.from, r.to)
		if r.status != "" {
			db = db.Where(table+".status = ?", r.status)
		}
		return db
	}
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns that calendar day in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
