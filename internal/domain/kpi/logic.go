package kpi

import "fmt"

const (
	GoodThreshold    = 90.0
	WarningThreshold = 70.0
)

const (
	BadgeSuccess = "success"
	BadgeWarning = "warning"
	BadgeDanger  = "danger"
	BadgeNone    = "secondary"
)

const Dash = "—"

// Percentage is actual/target*100. It is undefined when either value is
// missing or the target is not positive.
func Percentage(e Entry) (float64, bool) {
	if e.TargetValue == nil || e.ActualValue == nil || *e.TargetValue <= 0 {
		return 0, false
	}
	return *e.ActualValue / *e.TargetValue * 100, true
}

func Badge(pct float64, ok bool) string {
	switch {
	case !ok:
		return BadgeNone
	case pct >= GoodThreshold:
		return BadgeSuccess
	case pct >= WarningThreshold:
		return BadgeWarning
	default:
		return BadgeDanger
	}
}

func FormatPercent(pct float64, ok bool) string {
	if !ok {
		return Dash
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// Score applies weights exactly once, here: the weighted mean of uncapped
// completion ratios, as a percentage. Entries without a usable percentage or
// with a non-positive weight do not participate.
func Score(entries []Entry) (float64, bool) {
	var weighted, weights float64
	for _, e := range entries {
		pct, ok := Percentage(e)
		if !ok || e.Weight <= 0 {
			continue
		}
		weighted += pct * e.Weight
		weights += e.Weight
	}
	if weights == 0 {
		return 0, false
	}
	return weighted / weights, true
}

func BuildSummary(employeeID int64, entries []Entry) Summary {
	summary := Summary{EmployeeID: employeeID, Rows: make([]Row, 0, len(entries))}
	for _, e := range entries {
		pct, ok := Percentage(e)
		summary.Rows = append(summary.Rows, Row{
			Entry:         e,
			Percentage:    pct,
			HasPercentage: ok,
			Display:       FormatPercent(pct, ok),
			Badge:         Badge(pct, ok),
		})
		if summary.Period.IsZero() {
			summary.Period = e.Period
		}
	}
	summary.Score, summary.HasScore = Score(entries)
	summary.ScoreDisplay = FormatPercent(summary.Score, summary.HasScore)
	summary.ScoreBadge = Badge(summary.Score, summary.HasScore)
	return summary
}
