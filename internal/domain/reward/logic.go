package reward

import (
	"fmt"
	"time"

	"corpdash/internal/domain/period"
)

const Dash = "—"

func ParseSubject(raw string) (Subject, bool) {
	switch Subject(raw) {
	case SubjectEmployee, SubjectManager:
		return Subject(raw), true
	}
	return "", false
}

func ParsePeriodType(raw string) (PeriodType, bool) {
	for _, pt := range PeriodTypes {
		if PeriodType(raw) == pt {
			return pt, true
		}
	}
	return "", false
}

// Normalize maps any date inside a reward period to the date the period is
// keyed by: first of month, first of quarter, or first of year.
func (pt PeriodType) Normalize(t time.Time) time.Time {
	switch pt {
	case PeriodQuarterly:
		return period.QuarterStart(t)
	case PeriodYearly:
		return period.YearStart(t)
	default:
		return period.Start(t)
	}
}

// Label renders the period a reward covers, e.g. "Q3 2024".
func (pt PeriodType) Label(t time.Time) string {
	switch pt {
	case PeriodQuarterly:
		q := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", q, t.Year())
	case PeriodYearly:
		return t.Format("2006")
	default:
		return period.Label(t)
	}
}

// DisplayAmount renders the payout, falling back to a dash when no reward
// row exists.
func DisplayAmount(r *Reward) string {
	if r == nil {
		return Dash
	}
	return r.TotalAmount.StringFixed(2)
}
