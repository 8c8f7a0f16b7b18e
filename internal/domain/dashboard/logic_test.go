package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpdash/internal/domain/kpi"
)

func TestAverageSkipsUndefinedScores(t *testing.T) {
	scores := []kpi.EmployeeScore{
		{EmployeeName: "a", Score: 80, HasScore: true},
		{EmployeeName: "b"},
		{EmployeeName: "c", Score: 100, HasScore: true},
	}
	avg, ok := Average(scores)
	require.True(t, ok)
	assert.InDelta(t, 90.0, avg, 1e-9)

	_, ok = Average([]kpi.EmployeeScore{{EmployeeName: "x"}})
	assert.False(t, ok)
}

func TestTopOrdersByScoreThenName(t *testing.T) {
	scores := []kpi.EmployeeScore{
		{EmployeeName: "Zed", Score: 95, HasScore: true},
		{EmployeeName: "Amy", Score: 95, HasScore: true},
		{EmployeeName: "Bob", Score: 60, HasScore: true},
		{EmployeeName: "Cat"},
	}
	top := Top(scores, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Amy", top[0].EmployeeName)
	assert.Equal(t, "Zed", top[1].EmployeeName)

	assert.Len(t, Top(scores, 10), 3)
}
