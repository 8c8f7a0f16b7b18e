package view

import (
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/period"
	"corpdash/internal/domain/reward"
)

func funcs() template.FuncMap {
	return template.FuncMap{
		"percent":     kpi.FormatPercent,
		"badge":       kpi.Badge,
		"money":       money,
		"dash":        dash,
		"date":        date,
		"optDate":     optDate,
		"periodLabel": period.Label,
		"periodValue": period.Format,
		"rewardLabel": rewardLabel,
		"rewardTotal": reward.DisplayAmount,
		"optFloat":    optFloat,
		"optID":       optID,
		"hasID":       hasID,
		"statusLabel": statusLabel,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func dash(s string) string {
	if s == "" {
		return kpi.Dash
	}
	return s
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return date(*t)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func optID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

func hasID(ids []int64, id int64) bool {
	return slices.Contains(ids, id)
}

func rewardLabel(r reward.Reward) string {
	return r.PeriodType.Label(r.Period)
}

// statusLabel turns stored identifiers such as in_progress into display text.
func statusLabel(s string) string {
	switch s {
	case "in_progress":
		return "In progress"
	case "on_hold":
		return "On hold"
	case "":
		return kpi.Dash
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
