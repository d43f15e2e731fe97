package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/stretchr/testify/assert"
)

// TestBuildRecoveryPlan_Invariants property-tests the packing invariants:
// items are contiguous and non-overlapping, never pass bedtime, breaks sit
// only between tasks, scores never increase, and every candidate is either
// placed or omitted exactly once.
func TestBuildRecoveryPlan_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 300; trial++ {
		now := at(rng.Intn(24), rng.Intn(60))
		bedtime := domain.Clock(rng.Intn(int(domain.MinutesPerDay)) + 1)
		policy := domain.PolicySkipOversized
		if rng.Intn(2) == 1 {
			policy = domain.PolicyStopAtFirstOverflow
		}

		n := rng.Intn(10)
		candidates := make([]Candidate, n)
		for i := range candidates {
			c := cand(fmt.Sprintf("t%02d", i), rng.Intn(5)+1, at(rng.Intn(24), rng.Intn(60)))
			c.Task.ExpectedMinutes = rng.Intn(180) + 1
			if rng.Intn(3) == 0 {
				c.LearnedAvg = fptr(float64(rng.Intn(240) + 1))
				c.Samples = rng.Intn(10)
			}
			candidates[i] = c
		}

		res := BuildRecoveryPlan(PackInput{Candidates: candidates, Now: now, Bedtime: bedtime, Policy: policy})

		cursor := res.Start
		total := 0
		seen := make(map[string]int)
		prevScore := -1.0
		for i, it := range res.Items {
			assert.Equal(t, cursor, it.Start, "trial %d item %d: items must be contiguous", trial, i)
			assert.Equal(t, it.Start+domain.Clock(it.DurationMinutes), it.End, "trial %d item %d", trial, i)
			assert.LessOrEqual(t, it.End, bedtime, "trial %d item %d must end by bedtime", trial, i)
			cursor = it.End

			switch it.ItemType {
			case domain.ItemBreak:
				assert.True(t, i > 0 && i < len(res.Items)-1, "trial %d: break must sit between tasks", trial)
				assert.Equal(t, domain.ItemTask, res.Items[i+1].ItemType)
				assert.Equal(t, BreakMinutes, it.DurationMinutes)
			case domain.ItemTask:
				total += it.DurationMinutes
				seen[it.TaskID]++
				if prevScore >= 0 {
					assert.LessOrEqual(t, it.PriorityScore, prevScore, "trial %d: scores must not increase", trial)
				}
				prevScore = it.PriorityScore
			}
		}

		assert.Equal(t, total, res.TotalDuration, "trial %d", trial)
		assert.Equal(t, int(bedtime-res.EstimatedEnd), res.BufferMinutes, "trial %d", trial)
		for _, id := range res.OmittedTaskIDs {
			seen[id]++
		}
		assert.Len(t, seen, n, "trial %d: every candidate accounted for", trial)
		for id, count := range seen {
			assert.Equal(t, 1, count, "trial %d: %s placed or omitted exactly once", trial, id)
		}
	}
}
