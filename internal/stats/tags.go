package stats

import (
	"sort"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/scheduler"
)

type TagRollup struct {
	Tag                string   `json:"tag"`
	TotalTasks         int      `json:"totalTasks"`
	CompletedTasks     int      `json:"completedTasks"`
	CompletionRate     float64  `json:"completionRate"`
	AvgExpectedMinutes int      `json:"avgExpectedMinutes"`
	AvgActualMinutes   *float64 `json:"avgActualMinutes"`
	Samples            int      `json:"samples"`
	Distorted          bool     `json:"distorted"`
	DistortionPercent  *int     `json:"distortionPercent"`
}

// TagRollups aggregates all-time per-tag figures, most used tags first.
// Distortion fields stay empty until a tag has enough samples.
func TagRollups(tasks []*domain.Task, tagStats []domain.TagStat) []TagRollup {
	type acc struct {
		total, completed, declaredSum int
	}
	byTag := make(map[string]*acc)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			a, ok := byTag[tag]
			if !ok {
				a = &acc{}
				byTag[tag] = a
			}
			a.total++
			a.declaredSum += t.ExpectedMinutes
			if t.Status == domain.TaskDone {
				a.completed++
			}
		}
	}
	stats := indexTagStats(tagStats)

	out := make([]TagRollup, 0, len(byTag))
	for tag, a := range byTag {
		r := TagRollup{
			Tag:                tag,
			TotalTasks:         a.total,
			CompletedTasks:     a.completed,
			CompletionRate:     round2(float64(a.completed) / float64(a.total)),
			AvgExpectedMinutes: roundedAverage(a.declaredSum, a.total),
		}
		if st, ok := stats[tag]; ok && st.SampleCount > 0 {
			avg := round2(st.AvgActualMinutes)
			r.AvgActualMinutes = &avg
			r.Samples = st.SampleCount
			if info := scheduler.Distortion(r.AvgExpectedMinutes, &st.AvgActualMinutes, st.SampleCount); info != nil {
				r.Distorted = info.Flag
				pct := info.Percent
				r.DistortionPercent = &pct
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTasks != out[j].TotalTasks {
			return out[i].TotalTasks > out[j].TotalTasks
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
