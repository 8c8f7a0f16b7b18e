package reward

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDisplayAmountFallsBackToDash(t *testing.T) {
	assert.Equal(t, Dash, DisplayAmount(nil))
	assert.Equal(t, "1250.50", DisplayAmount(&Reward{TotalAmount: decimal.RequireFromString("1250.5")}))
	assert.Equal(t, "0.00", DisplayAmount(&Reward{}))
}

func TestParsePeriodType(t *testing.T) {
	pt, ok := ParsePeriodType("quarterly")
	assert.True(t, ok)
	assert.Equal(t, PeriodQuarterly, pt)

	_, ok = ParsePeriodType("weekly")
	assert.False(t, ok)
}

func TestParseSubject(t *testing.T) {
	s, ok := ParseSubject("manager")
	assert.True(t, ok)
	assert.Equal(t, SubjectManager, s)

	_, ok = ParseSubject("ceo")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	day := time.Date(2024, time.November, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Normalize(day))
	assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), PeriodQuarterly.Normalize(day))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), PeriodYearly.Normalize(day))
}

func TestLabel(t *testing.T) {
	day := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "August 2024", PeriodMonthly.Label(day))
	assert.Equal(t, "Q3 2024", PeriodQuarterly.Label(day))
	assert.Equal(t, "2024", PeriodYearly.Label(day))
}
