package project

import "slices"

func ValidTaskStatus(status string) bool {
	return slices.Contains(TaskStatuses, status)
}

// Progress is the share of done tasks, 0 when there are none.
func Progress(tasks []Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == TaskDone {
			done++
		}
	}
	return float64(done) / float64(len(tasks)) * 100
}

// StatusCounts tallies tasks by status, with every known status present.
func StatusCounts(tasks []Task) map[string]int {
	counts := make(map[string]int, len(TaskStatuses))
	for _, s := range TaskStatuses {
		counts[s] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
