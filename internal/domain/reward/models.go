package reward

import (
	"time"

	"github.com/shopspring/decimal"
)

type Subject string

const (
	SubjectEmployee Subject = "employee"
	SubjectManager  Subject = "manager"
)

type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

var PeriodTypes = []PeriodType{PeriodMonthly, PeriodQuarterly, PeriodYearly}

type Reward struct {
	ID          int64           `json:"id"`
	Subject     Subject         `json:"subject"`
	SubjectID   int64           `json:"subjectId"`
	SubjectName string          `json:"subjectName"`
	Department  string          `json:"department"`
	Period      time.Time       `json:"period"`
	PeriodType  PeriodType      `json:"periodType"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
