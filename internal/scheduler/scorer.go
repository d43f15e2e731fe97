package scheduler

import (
	"math"
	"time"
)

type ScoringWeights struct {
	Urgency   float64
	Priority  float64
	Remaining float64
}

func defaultWeights() ScoringWeights {
	return ScoringWeights{
		Urgency:   2.0,
		Priority:  1.0,
		Remaining: 3.0,
	}
}

type ScoringInput struct {
	Priority         int // 1 highest .. 5 lowest
	ScheduledAt      time.Time
	Now              time.Time
	RemainingMinutes int // bedtime minus the item's start
	Weights          ScoringWeights
}

// ScoreItem computes the raw priority score of a placed task.
func ScoreItem(input ScoringInput) float64 {
	var score float64
	factors := []func(ScoringInput) float64{
		scoreUrgency,
		scorePriority,
		scoreRemaining,
	}
	for _, f := range factors {
		score += f(input)
	}
	return score
}

func scoreUrgency(input ScoringInput) float64 {
	if input.ScheduledAt.Before(input.Now) {
		return input.Weights.Urgency
	}
	return 0
}

func scorePriority(input ScoringInput) float64 {
	return float64(6-input.Priority) * input.Weights.Priority
}

func scoreRemaining(input ScoringInput) float64 {
	if input.RemainingMinutes <= 0 {
		return 0
	}
	return input.Weights.Remaining / float64(input.RemainingMinutes)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
