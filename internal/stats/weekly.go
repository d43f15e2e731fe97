package stats

import (
	"sort"
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/scheduler"
)

// WeekDays is the length of the trailing weekly window, today included.
const WeekDays = 7

type DayPoint struct {
	Date           string  `json:"date"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	FocusMinutes   int     `json:"focusMinutes"`
	CompletionRate float64 `json:"completionRate"`
}

type DistortionNote struct {
	Flag             bool    `json:"flag"`
	Percent          int     `json:"percent"`
	AvgActualMinutes float64 `json:"avgActualMinutes"`
	Samples          int     `json:"samples"`
}

type TagMinutes struct {
	Tag              string          `json:"tag"`
	CompletedMinutes int             `json:"completedMinutes"`
	Distortion       *DistortionNote `json:"distortion,omitempty"`
}

type WeeklyStats struct {
	StartDate             string       `json:"startDate"`
	EndDate               string       `json:"endDate"`
	Days                  []DayPoint   `json:"days"`
	AverageFocusMinutes   float64      `json:"averageFocusMinutes"`
	AverageCompletionRate float64      `json:"averageCompletionRate"`
	Tags                  []TagMinutes `json:"tags"`
	CurrentStreak         int          `json:"currentStreak"`
}

// Weekly summarizes the seven days ending today. tasks must cover the
// streak history as well as the week itself.
func Weekly(tasks []*domain.Task, tagStats []domain.TagStat, today time.Time, loc *time.Location) WeeklyStats {
	b := newBuckets(tasks, loc)
	end := startOfDay(today, loc)
	start := end.AddDate(0, 0, -(WeekDays - 1))

	out := WeeklyStats{
		StartDate:     start.Format(dateLayout),
		EndDate:       end.Format(dateLayout),
		Days:          make([]DayPoint, 0, WeekDays),
		CurrentStreak: currentStreak(b, end),
	}

	var weekTasks []*domain.Task
	var focusSum, rateSum float64
	activeDays := 0
	for i := 0; i < WeekDays; i++ {
		d := start.AddDate(0, 0, i)
		s := b.day(d)
		out.Days = append(out.Days, DayPoint{
			Date:           d.Format(dateLayout),
			TotalTasks:     s.Total,
			CompletedTasks: s.Completed,
			FocusMinutes:   s.Focus,
			CompletionRate: round2(s.rate()),
		})
		focusSum += float64(s.Focus)
		if s.Total > 0 {
			activeDays++
			rateSum += s.rate()
		}
		weekTasks = append(weekTasks, b.tasksOn(d)...)
	}
	out.AverageFocusMinutes = round2(focusSum / WeekDays)
	if activeDays > 0 {
		out.AverageCompletionRate = round2(rateSum / float64(activeDays))
	}
	out.Tags = tagMinutes(weekTasks, indexTagStats(tagStats))
	return out
}

func indexTagStats(stats []domain.TagStat) map[string]domain.TagStat {
	m := make(map[string]domain.TagStat, len(stats))
	for _, s := range stats {
		m[s.Tag] = s
	}
	return m
}

// tagMinutes sums completed declared minutes per tag and annotates each tag
// whose learned average is far from its declared average.
func tagMinutes(tasks []*domain.Task, stats map[string]domain.TagStat) []TagMinutes {
	type acc struct {
		completed     int
		declaredSum   int
		declaredCount int
	}
	byTag := make(map[string]*acc)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			a, ok := byTag[tag]
			if !ok {
				a = &acc{}
				byTag[tag] = a
			}
			a.declaredSum += t.ExpectedMinutes
			a.declaredCount++
			if t.Status == domain.TaskDone {
				a.completed += t.ExpectedMinutes
			}
		}
	}

	out := make([]TagMinutes, 0, len(byTag))
	for tag, a := range byTag {
		tm := TagMinutes{Tag: tag, CompletedMinutes: a.completed}
		if st, ok := stats[tag]; ok {
			declared := roundedAverage(a.declaredSum, a.declaredCount)
			avg := st.AvgActualMinutes
			if info := scheduler.Distortion(declared, &avg, st.SampleCount); info != nil {
				tm.Distortion = &DistortionNote{
					Flag:             info.Flag,
					Percent:          info.Percent,
					AvgActualMinutes: round2(avg),
					Samples:          st.SampleCount,
				}
			}
		}
		out = append(out, tm)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedMinutes != out[j].CompletedMinutes {
			return out[i].CompletedMinutes > out[j].CompletedMinutes
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func roundedAverage(sum, count int) int {
	if count == 0 {
		return 0
	}
	return scheduler.RoundMinutes(float64(sum) / float64(count))
}
