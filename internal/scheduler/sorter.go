package scheduler

import "sort"

// RecoverySort orders candidates by the deterministic packing rules:
// 1. Priority: 1 (highest) first
// 2. Scheduled time: earliest first
// 3. Task ID: lexical ascending
func RecoverySort(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Task, candidates[j].Task

		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}

		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.Before(b.ScheduledAt)
		}

		return a.ID < b.ID
	})
}
