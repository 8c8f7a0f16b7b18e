package shared

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"corpdash/internal/domain/period"
)

// URLID reads a positive numeric chi URL parameter.
func URLID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryInt64 returns 0 for a missing or malformed value.
func QueryInt64(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(key)), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// QueryPeriod reads ?period=YYYY-MM, falling back to the month containing
// now when the value is missing or malformed.
func QueryPeriod(r *http.Request, now time.Time) time.Time {
	return period.ParseOr(r.URL.Query().Get("period"), now)
}

func Int64List(values []string) []int64 {
	out := make([]int64, 0, len(values))
	for _, raw := range values {
		if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && id > 0 {
			out = append(out, id)
		}
	}
	return out
}

func (v *Validator) Int64(field, raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		v.Add(field, "must be a whole number")
		return 0
	}
	return id
}

// OptionalInt64 maps an empty select to nil.
func (v *Validator) OptionalInt64(field, raw string) *int64 {
	id := v.Int64(field, raw)
	if id <= 0 {
		return nil
	}
	return &id
}

func (v *Validator) Float(field, raw string) float64 {
	f := v.OptionalFloat(field, raw)
	if f == nil {
		return 0
	}
	return *f
}

func (v *Validator) OptionalFloat(field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.Add(field, "must be a number")
		return nil
	}
	return &f
}

func (v *Validator) Decimal(field, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.Add(field, "must be an amount such as 1250.00")
		return decimal.Zero
	}
	return d
}

func (v *Validator) OptionalDate(field, raw string) *time.Time {
	t, err := ParseOptionalDate(raw)
	if err != nil {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return nil
	}
	return t
}

// Period parses a YYYY-MM or YYYY-MM-DD value into the first of its month.
func (v *Validator) Period(field, raw string) time.Time {
	p, err := period.Parse(raw)
	if err != nil {
		v.Add(field, "must be a month in YYYY-MM format")
		return time.Time{}
	}
	return p
}
