package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizesToFirstOfMonth(t *testing.T) {
	got, err := Parse("2024-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = Parse("2024-03-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "march", "2024-13", "2024/03/01"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidPeriod, raw)
	}
}

func TestParseOrFallsBackToCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.July, 19, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), ParseOr("nope", now))
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), ParseOr("2025-02", now))
}

func TestQuarterAndYearStart(t *testing.T) {
	aug := time.Date(2024, time.August, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), QuarterStart(aug))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), YearStart(aug))

	mar := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), QuarterStart(mar))
}

func TestFormatAndLabel(t *testing.T) {
	p := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03", Format(p))
	assert.Equal(t, "March 2024", Label(p))
	assert.Equal(t, "", Format(time.Time{}))
}

func TestRecent(t *testing.T) {
	got := Recent(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02", Format(got[0]))
	assert.Equal(t, "2024-01", Format(got[1]))
	assert.Equal(t, "2023-12", Format(got[2]))
}
