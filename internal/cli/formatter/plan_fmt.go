package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/alexanderramin/rebound/internal/domain"
)

// FormatPlan renders a recovery plan as a timeline.
func FormatPlan(p *contract.BuildPlanResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  plan %s\n\n", Bold(p.TargetDate), TriggerBadge(p.TriggerType), TruncID(p.PlanID))

	rows := make([][]string, 0, len(p.Plan))
	for _, it := range p.Plan {
		slot := it.StartTime + "–" + it.EndTime
		if it.ItemType == domain.ItemBreak {
			rows = append(rows, []string{Dim(slot), Dim(it.Title), Dim(FormatMinutes(it.DurationMinutes)), ""})
			continue
		}
		dur := FormatMinutes(it.DurationMinutes)
		if it.ActualAvgMinutes != nil {
			dur += " " + StyleYellow.Render("(learned)")
		}
		rows = append(rows, []string{slot, it.Title, dur, fmt.Sprintf("%.2f", it.PriorityScore)})
	}
	b.WriteString(RenderTable([]string{"TIME", "TASK", "LENGTH", "SCORE"}, rows))
	fmt.Fprintf(&b, "\nEnds %s  ·  %s  ·  %s of work\n",
		p.EstimatedEndTime, FormatBuffer(p.BufferMinutes), FormatMinutes(p.TotalDuration))
	if n := len(p.OmittedTaskIDs); n > 0 {
		fmt.Fprintf(&b, "%s\n", StyleRed.Render(fmt.Sprintf("%d task(s) did not fit before bedtime", n)))
	}
	return RenderBox("recovery plan", b.String())
}

func FormatApplied(r *contract.ApplyPlanResponse) string {
	return fmt.Sprintf("%s %s\n", StyleGreen.Render("✔"), r.Message)
}
