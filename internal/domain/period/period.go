// Package period handles the month granularity used for KPI and reward data.
// A period is always stored as the first day of its month.
package period

import (
	"errors"
	"strings"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

var ErrInvalidPeriod = errors.New("period must be YYYY-MM or YYYY-MM-DD")

// Parse accepts YYYY-MM or any YYYY-MM-DD date and returns the first day of
// that month in UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidPeriod
	}
	if parsed, err := time.Parse(monthLayout, raw); err == nil {
		return Start(parsed), nil
	}
	if parsed, err := time.Parse(dateLayout, raw); err == nil {
		return Start(parsed), nil
	}
	return time.Time{}, ErrInvalidPeriod
}

// ParseOr falls back to the period containing now when raw is empty or invalid.
func ParseOr(raw string, now time.Time) time.Time {
	parsed, err := Parse(raw)
	if err != nil {
		return Start(now)
	}
	return parsed
}

func Start(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func QuarterStart(t time.Time) time.Time {
	month := ((int(t.Month())-1)/3)*3 + 1
	return time.Date(t.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(monthLayout)
}

// Label renders a period for humans, e.g. "March 2024".
func Label(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2006")
}

// Recent lists the n most recent periods ending at the one containing now.
func Recent(now time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	current := Start(now)
	for i := 0; i < n; i++ {
		out = append(out, current.AddDate(0, -i, 0))
	}
	return out
}
