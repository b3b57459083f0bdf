package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for transaction dates and deadlines.
const DateLayout = "2006-01-02"

// MonthLayout is the budget month format (YYYY-MM).
const MonthLayout = "2006-01"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// MonthOf returns the YYYY-MM month a calendar date falls in.
func MonthOf(date time.Time) string {
	return date.UTC().Format(MonthLayout)
}

// ParseMonth parses a YYYY-MM string into the first instant of that month (UTC).
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	return t, nil
}

// MonthRange returns the first and last calendar day of a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first, first.AddDate(0, 1, -1), nil
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
