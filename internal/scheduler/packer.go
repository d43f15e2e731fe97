package scheduler

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// BreakMinutes is the length of the rest slot inserted between two tasks.
const BreakMinutes = 5

const breakTitle = "Break"

// Candidate is an incomplete task together with the learned average of
// its best-sampled tag, if any.
type Candidate struct {
	Task       domain.Task
	LearnedAvg *float64
	Samples    int
}

// PlannedMinutes returns the slot length for the candidate and, when the
// learned average replaced the declared duration, that average in minutes.
func (c Candidate) PlannedMinutes() (int, *int) {
	info := Distortion(c.Task.ExpectedMinutes, c.LearnedAvg, c.Samples)
	if info == nil || !info.Flag {
		return c.Task.ExpectedMinutes, nil
	}
	m := RoundMinutes(*c.LearnedAvg)
	return m, &m
}

type PackInput struct {
	Candidates []Candidate
	Now        time.Time
	Bedtime    domain.Clock
	Policy     domain.PackingPolicy
	Weights    *ScoringWeights // nil uses the default weights
}

type PackResult struct {
	Items          []domain.RecoveryPlanItem
	Start          domain.Clock
	EstimatedEnd   domain.Clock
	BufferMinutes  int // signed; negative means overrun
	TotalDuration  int // task minutes only
	OmittedTaskIDs []string
}

// BuildRecoveryPlan greedily packs candidates, in RecoverySort order, into
// the window between now (rounded up to five minutes) and bedtime. A break
// precedes every task except the first. The input slice is not modified.
func BuildRecoveryPlan(in PackInput) PackResult {
	candidates := make([]Candidate, len(in.Candidates))
	copy(candidates, in.Candidates)
	RecoverySort(candidates)

	weights := defaultWeights()
	if in.Weights != nil {
		weights = *in.Weights
	}

	start := domain.RoundUpToFive(in.Now)
	res := PackResult{Start: start}
	cursor := start
	placed := 0
	prevScore := 0.0
	stopped := false

	for _, c := range candidates {
		if stopped {
			res.OmittedTaskIDs = append(res.OmittedTaskIDs, c.Task.ID)
			continue
		}

		dur, learned := c.PlannedMinutes()
		needed := dur
		if placed > 0 {
			needed += BreakMinutes
		}
		if cursor+domain.Clock(needed) > in.Bedtime {
			res.OmittedTaskIDs = append(res.OmittedTaskIDs, c.Task.ID)
			if in.Policy == domain.PolicyStopAtFirstOverflow {
				stopped = true
			}
			continue
		}

		if placed > 0 {
			res.Items = append(res.Items, domain.RecoveryPlanItem{
				ItemType:        domain.ItemBreak,
				Title:           breakTitle,
				Start:           cursor,
				End:             cursor + BreakMinutes,
				DurationMinutes: BreakMinutes,
			})
			cursor += BreakMinutes
		}

		score := round2(ScoreItem(ScoringInput{
			Priority:         c.Task.Priority,
			ScheduledAt:      c.Task.ScheduledAt,
			Now:              in.Now,
			RemainingMinutes: int(in.Bedtime - cursor),
			Weights:          weights,
		}))
		// Later items never outrank earlier ones.
		if placed > 0 && score > prevScore {
			score = prevScore
		}
		prevScore = score

		res.Items = append(res.Items, domain.RecoveryPlanItem{
			ItemType:         domain.ItemTask,
			TaskID:           c.Task.ID,
			Title:            c.Task.Title,
			Start:            cursor,
			End:              cursor + domain.Clock(dur),
			DurationMinutes:  dur,
			PriorityScore:    score,
			ActualAvgMinutes: learned,
		})
		cursor += domain.Clock(dur)
		res.TotalDuration += dur
		placed++
	}

	res.EstimatedEnd = start
	if n := len(res.Items); n > 0 {
		res.EstimatedEnd = res.Items[n-1].End
	}
	res.BufferMinutes = int(in.Bedtime - res.EstimatedEnd)
	return res
}
