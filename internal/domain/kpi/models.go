package kpi

import "time"

type Entry struct {
	ID            int64     `json:"id"`
	EmployeeID    int64     `json:"employeeId"`
	Period        time.Time `json:"period"`
	IndicatorName string    `json:"indicatorName"`
	Weight        float64   `json:"weight"`
	TargetValue   *float64  `json:"targetValue"`
	ActualValue   *float64  `json:"actualValue"`
	Unit          string    `json:"unit"`
}

// Row is one indicator line ready for display.
type Row struct {
	Entry
	Percentage    float64 `json:"percentage"`
	HasPercentage bool    `json:"hasPercentage"`
	Display       string  `json:"display"`
	Badge         string  `json:"badge"`
}

type Summary struct {
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Period       time.Time `json:"period"`
	Rows         []Row     `json:"rows"`
	Score        float64   `json:"score"`
	HasScore     bool      `json:"hasScore"`
	ScoreDisplay string    `json:"scoreDisplay"`
	ScoreBadge   string    `json:"scoreBadge"`
}

// Empty reports the "KPI not set for this period" state.
func (s Summary) Empty() bool {
	return len(s.Rows) == 0
}

// EmployeeScore is one line of a department KPI overview.
type EmployeeScore struct {
	EmployeeID   int64   `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Department   string  `json:"department"`
	Indicators   int     `json:"indicators"`
	Score        float64 `json:"score"`
	HasScore     bool    `json:"hasScore"`
	ScoreDisplay string  `json:"scoreDisplay"`
	ScoreBadge   string  `json:"scoreBadge"`
}

// ExportRow is one indicator line tagged with its employee, for spreadsheets.
type ExportRow struct {
	EmployeeName string
	Department   string
	Row          Row
}
