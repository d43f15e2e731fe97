package stats

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// Heatmap level bounds, in completed minutes.
const (
	heatLevel1Below = 30
	heatLevel2Below = 90
)

type HeatmapCell struct {
	Date         string `json:"date"`
	FocusMinutes int    `json:"focusMinutes"`
	Level        int    `json:"level"`
}

type WeekSubtotal struct {
	Week           int    `json:"week"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	FocusMinutes   int    `json:"focusMinutes"`
	CompletedTasks int    `json:"completedTasks"`
	TotalTasks     int    `json:"totalTasks"`
}

type MonthlyStats struct {
	Year                  int            `json:"year"`
	Month                 int            `json:"month"`
	TotalFocusMinutes     int            `json:"totalFocusMinutes"`
	AverageCompletionRate float64        `json:"averageCompletionRate"`
	LongestStreak         int            `json:"longestStreak"`
	Weeks                 []WeekSubtotal `json:"weeks"`
	Heatmap               []HeatmapCell  `json:"heatmap"`
}

// HeatLevel buckets a day's completed minutes: 0 for none, 1 under 30,
// 2 under 90, 3 otherwise.
func HeatLevel(minutes int) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes < heatLevel1Below:
		return 1
	case minutes < heatLevel2Below:
		return 2
	default:
		return 3
	}
}

// Monthly summarizes a calendar month in loc. Weeks are fixed spans of the
// month (days 1-7, 8-14, 15-21, 22-28, 29-end), not ISO weeks.
func Monthly(tasks []*domain.Task, year int, month time.Month, loc *time.Location) MonthlyStats {
	b := newBuckets(tasks, loc)
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysIn := first.AddDate(0, 1, -1).Day()

	out := MonthlyStats{
		Year:    year,
		Month:   int(month),
		Heatmap: make([]HeatmapCell, 0, daysIn),
	}

	days := make([]time.Time, 0, daysIn)
	var rateSum float64
	activeDays := 0
	for i := 0; i < daysIn; i++ {
		d := first.AddDate(0, 0, i)
		days = append(days, d)
		s := b.day(d)

		out.TotalFocusMinutes += s.Focus
		if s.Total > 0 {
			activeDays++
			rateSum += s.rate()
		}
		out.Heatmap = append(out.Heatmap, HeatmapCell{
			Date:         d.Format(dateLayout),
			FocusMinutes: s.Focus,
			Level:        HeatLevel(s.Focus),
		})

		week := i / 7
		if week >= len(out.Weeks) {
			out.Weeks = append(out.Weeks, WeekSubtotal{Week: week + 1, StartDate: d.Format(dateLayout)})
		}
		w := &out.Weeks[week]
		w.EndDate = d.Format(dateLayout)
		w.FocusMinutes += s.Focus
		w.CompletedTasks += s.Completed
		w.TotalTasks += s.Total
	}
	if activeDays > 0 {
		out.AverageCompletionRate = round2(rateSum / float64(activeDays))
	}
	out.LongestStreak = longestStreak(b, days)
	return out
}
