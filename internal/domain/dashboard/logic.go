package dashboard

import (
	"sort"

	"corpdash/internal/domain/kpi"
)

const topScoreCount = 5

// Average is the plain mean of the defined scores. Employees without a score
// for the period are left out rather than counted as zero.
func Average(scores []kpi.EmployeeScore) (float64, bool) {
	var sum float64
	n := 0
	for _, s := range scores {
		if !s.HasScore {
			continue
		}
		sum += s.Score
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Top returns up to n scored employees, best first, ties by name.
func Top(scores []kpi.EmployeeScore, n int) []kpi.EmployeeScore {
	out := make([]kpi.EmployeeScore, 0, len(scores))
	for _, s := range scores {
		if s.HasScore {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
