package stats

import (
	"math"
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

const dateLayout = "2006-01-02"

// daySummary is the per-day tally every view is built from.
type daySummary struct {
	Total      int
	Completed  int
	Pending    int
	InProgress int
	Skipped    int
	Recovered  int
	Focus      int // declared minutes of completed tasks
}

func (d daySummary) rate() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Completed) / float64(d.Total)
}

// qualifies reports whether the day counts toward a streak: at least one
// task and at least half of them completed.
func (d daySummary) qualifies() bool {
	return d.Total > 0 && 2*d.Completed >= d.Total
}

func (d *daySummary) add(t *domain.Task) {
	d.Total++
	switch t.Status {
	case domain.TaskDone:
		d.Completed++
		d.Focus += t.ExpectedMinutes
	case domain.TaskPending:
		d.Pending++
	case domain.TaskInProgress:
		d.InProgress++
	case domain.TaskSkipped:
		d.Skipped++
	}
	if t.IsRecovered {
		d.Recovered++
	}
}

// buckets groups tasks by the calendar day of ScheduledAt in loc.
type buckets struct {
	loc   *time.Location
	days  map[string]daySummary
	tasks map[string][]*domain.Task
}

func newBuckets(tasks []*domain.Task, loc *time.Location) *buckets {
	b := &buckets{
		loc:   loc,
		days:  make(map[string]daySummary),
		tasks: make(map[string][]*domain.Task),
	}
	for _, t := range tasks {
		key := t.ScheduledAt.In(loc).Format(dateLayout)
		s := b.days[key]
		s.add(t)
		b.days[key] = s
		b.tasks[key] = append(b.tasks[key], t)
	}
	return b
}

func (b *buckets) day(d time.Time) daySummary {
	return b.days[d.In(b.loc).Format(dateLayout)]
}

func (b *buckets) tasksOn(d time.Time) []*domain.Task {
	return b.tasks[d.In(b.loc).Format(dateLayout)]
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	return domain.DateOnly(t.In(loc))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
