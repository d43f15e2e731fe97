package stats

import (
	"sort"
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// HistoryWindowDays is how far back the daily comparison average looks.
const HistoryWindowDays = 30

type TagCount struct {
	Tag       string `json:"tag"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

type HistoricalAverage struct {
	Days           int     `json:"days"`
	FocusMinutes   float64 `json:"focusMinutes"`
	CompletionRate float64 `json:"completionRate"`
}

type DailyStats struct {
	Date            string            `json:"date"`
	TotalTasks      int               `json:"totalTasks"`
	CompletedTasks  int               `json:"completedTasks"`
	PendingTasks    int               `json:"pendingTasks"`
	InProgressTasks int               `json:"inProgressTasks"`
	SkippedTasks    int               `json:"skippedTasks"`
	CompletionRate  float64           `json:"completionRate"`
	FocusMinutes    int               `json:"focusMinutes"`
	RecoveredTasks  int               `json:"recoveredTasks"`
	Tags            []TagCount        `json:"tags"`
	History         HistoricalAverage `json:"history"`
}

// Daily summarizes the tasks scheduled on day's calendar date in loc and
// compares it with the average of the preceding days that had tasks.
func Daily(tasks []*domain.Task, day time.Time, loc *time.Location) DailyStats {
	b := newBuckets(tasks, loc)
	s := b.day(day)

	out := DailyStats{
		Date:            startOfDay(day, loc).Format(dateLayout),
		TotalTasks:      s.Total,
		CompletedTasks:  s.Completed,
		PendingTasks:    s.Pending,
		InProgressTasks: s.InProgress,
		SkippedTasks:    s.Skipped,
		CompletionRate:  round2(s.rate()),
		FocusMinutes:    s.Focus,
		RecoveredTasks:  s.Recovered,
		Tags:            tagCounts(b.tasksOn(day)),
		History:         historicalAverage(b, day, HistoryWindowDays),
	}
	return out
}

func tagCounts(tasks []*domain.Task) []TagCount {
	byTag := make(map[string]*TagCount)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			tc, ok := byTag[tag]
			if !ok {
				tc = &TagCount{Tag: tag}
				byTag[tag] = tc
			}
			tc.Total++
			if t.Status == domain.TaskDone {
				tc.Completed++
			}
		}
	}
	out := make([]TagCount, 0, len(byTag))
	for _, tc := range byTag {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// historicalAverage averages focus minutes and completion rate over the
// window days before day, counting only days that had tasks.
func historicalAverage(b *buckets, day time.Time, window int) HistoricalAverage {
	start := startOfDay(day, b.loc)
	var h HistoricalAverage
	var focus, rate float64
	for i := 1; i <= window; i++ {
		s := b.day(start.AddDate(0, 0, -i))
		if s.Total == 0 {
			continue
		}
		h.Days++
		focus += float64(s.Focus)
		rate += s.rate()
	}
	if h.Days > 0 {
		h.FocusMinutes = round2(focus / float64(h.Days))
		h.CompletionRate = round2(rate / float64(h.Days))
	}
	return h
}
