package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/rebound/internal/stats"
)

// FormatDaily renders one day's summary next to the trailing average.
func FormatDaily(d *stats.DailyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Bold(d.Date), RenderRate(d.CompletionRate, 20))
	fmt.Fprintf(&b, "Done %d/%d  ·  pending %d  ·  in progress %d  ·  skipped %d  ·  recovered %d\n",
		d.CompletedTasks, d.TotalTasks, d.PendingTasks, d.InProgressTasks, d.SkippedTasks, d.RecoveredTasks)
	fmt.Fprintf(&b, "Focus %s", FormatMinutes(d.FocusMinutes))
	if d.History.Days > 0 {
		fmt.Fprintf(&b, "  %s", Dim(fmt.Sprintf("(avg %s, %s over %d days)",
			FormatMinutes(int(d.History.FocusMinutes+0.5)), percent(d.History.CompletionRate), d.History.Days)))
	}
	b.WriteString("\n")

	if len(d.Tags) > 0 {
		rows := make([][]string, 0, len(d.Tags))
		for _, t := range d.Tags {
			rows = append(rows, []string{t.Tag, fmt.Sprintf("%d/%d", t.Completed, t.Total)})
		}
		b.WriteString("\n" + RenderTable([]string{"TAG", "DONE"}, rows))
	}
	return RenderBox("today", b.String())
}

// FormatWeekly renders the seven-day trend and per-tag minutes.
func FormatWeekly(w *stats.WeeklyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s   streak %s\n\n", w.StartDate, w.EndDate, Bold(strconv.Itoa(w.CurrentStreak)))

	rows := make([][]string, 0, len(w.Days))
	for _, d := range w.Days {
		rows = append(rows, []string{
			d.Date,
			fmt.Sprintf("%d/%d", d.CompletedTasks, d.TotalTasks),
			FormatMinutes(d.FocusMinutes),
			RenderRate(d.CompletionRate, 10),
		})
	}
	b.WriteString(RenderTable([]string{"DAY", "DONE", "FOCUS", "RATE"}, rows))
	fmt.Fprintf(&b, "\nAvg focus %s/day  ·  avg rate %s\n",
		FormatMinutes(int(w.AverageFocusMinutes+0.5)), percent(w.AverageCompletionRate))

	if len(w.Tags) > 0 {
		tagRows := make([][]string, 0, len(w.Tags))
		for _, t := range w.Tags {
			note := ""
			if t.Distortion != nil && t.Distortion.Flag {
				note = StyleYellow.Render(fmt.Sprintf("actual avg %s (%+d%%)",
					FormatMinutes(int(t.Distortion.AvgActualMinutes+0.5)), t.Distortion.Percent))
			}
			tagRows = append(tagRows, []string{t.Tag, FormatMinutes(t.CompletedMinutes), note})
		}
		b.WriteString("\n" + RenderTable([]string{"TAG", "DONE", "ESTIMATE"}, tagRows))
	}
	return RenderBox("this week", b.String())
}

// FormatMonthly renders the month as a heatmap, one row per fixed week.
func FormatMonthly(m *stats.MonthlyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d-%02d   focus %s   avg rate %s   longest streak %d\n\n",
		m.Year, m.Month, FormatMinutes(m.TotalFocusMinutes), percent(m.AverageCompletionRate), m.LongestStreak)

	for i, w := range m.Weeks {
		cells := make([]string, 0, 7)
		for d := i * 7; d < len(m.Heatmap) && d < (i+1)*7; d++ {
			cells = append(cells, HeatCell(m.Heatmap[d].Level))
		}
		line := strings.Join(cells, " ")
		line += strings.Repeat("  ", 7-len(cells))
		fmt.Fprintf(&b, "W%d  %s   %s  %s\n", w.Week, line,
			FormatMinutes(w.FocusMinutes), Dim(fmt.Sprintf("%d/%d done", w.CompletedTasks, w.TotalTasks)))
	}
	b.WriteString("\n" + Dim("□ none  ") + HeatCell(1) + Dim(" <30m  ") + HeatCell(2) + Dim(" <90m  ") + HeatCell(3) + Dim(" 90m+"))
	return RenderBox("month", b.String())
}

// FormatTags renders all-time tag rollups as a table.
func FormatTags(rollups []stats.TagRollup) string {
	if len(rollups) == 0 {
		return Dim("No tagged tasks yet.") + "\n"
	}
	rows := make([][]string, 0, len(rollups))
	for _, r := range rollups {
		actual := Dim("--")
		if r.AvgActualMinutes != nil {
			actual = fmt.Sprintf("%.1fm (%d)", *r.AvgActualMinutes, r.Samples)
		}
		drift := Dim("--")
		if r.DistortionPercent != nil {
			drift = fmt.Sprintf("%+d%%", *r.DistortionPercent)
			if r.Distorted {
				drift = StyleYellow.Render(drift)
			}
		}
		rows = append(rows, []string{
			r.Tag,
			fmt.Sprintf("%d/%d", r.CompletedTasks, r.TotalTasks),
			percent(r.CompletionRate),
			FormatMinutes(r.AvgExpectedMinutes),
			actual,
			drift,
		})
	}
	return RenderTable([]string{"TAG", "DONE", "RATE", "DECLARED", "ACTUAL", "DRIFT"}, rows)
}
