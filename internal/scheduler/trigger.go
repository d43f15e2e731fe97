package scheduler

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// IncompleteThreshold is the number of unfinished tasks that makes a
// recovery plan worthwhile regardless of the time of day.
const IncompleteThreshold = 3

type TriggerDecision struct {
	Eligible        bool
	Type            domain.TriggerType
	IncompleteCount int
	Clock           domain.Clock
}

// EvaluateTrigger decides whether the user is behind. When both the count
// and the 17:00 condition hold, AFTER_17 is reported.
func EvaluateTrigger(incomplete []domain.Task, now time.Time) TriggerDecision {
	d := TriggerDecision{
		IncompleteCount: len(incomplete),
		Clock:           domain.ClockOf(now),
	}
	switch {
	case d.Clock >= domain.After17:
		d.Eligible = true
		d.Type = domain.TriggerAfter17
	case d.IncompleteCount >= IncompleteThreshold:
		d.Eligible = true
		d.Type = domain.TriggerIncompleteCount
	}
	return d
}
