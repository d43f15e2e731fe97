package contract

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// BuildPlanRequest asks for a recovery plan. Empty TargetDate means today in
// the configured timezone; empty Bedtime means the configured default.
type BuildPlanRequest struct {
	TargetDate string     `json:"targetDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Bedtime    string     `json:"bedtime,omitempty" validate:"omitempty,clock"`
	Now        *time.Time `json:"-"`
}

type PlanItemView struct {
	TaskID           string          `json:"taskId,omitempty"`
	Title            string          `json:"title"`
	StartTime        string          `json:"startTime"`
	EndTime          string          `json:"endTime"`
	DurationMinutes  int             `json:"durationMinutes"`
	PriorityScore    float64         `json:"priorityScore"`
	ItemType         domain.ItemType `json:"itemType"`
	ActualAvgMinutes *int            `json:"actualAvgMinutes,omitempty"`
}

type BuildPlanResponse struct {
	PlanID           string             `json:"planId"`
	TargetDate       string             `json:"targetDate"`
	TriggerType      domain.TriggerType `json:"triggerType"`
	TotalDuration    int                `json:"totalDuration"`
	Plan             []PlanItemView     `json:"plan"`
	EstimatedEndTime string             `json:"estimatedEndTime"`
	BufferMinutes    int                `json:"bufferMinutes"`
	OmittedTaskIDs   []string           `json:"omittedTaskIds"`
	Applied          bool               `json:"applied"`
}

type ApplyItem struct {
	TaskID    string `json:"taskId" validate:"required"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock"`
}

// ApplyPlanRequest commits a plan. Empty Items applies the plan as built.
type ApplyPlanRequest struct {
	PlanID string      `json:"planId" validate:"required"`
	Items  []ApplyItem `json:"items" validate:"dive"`
	Now    *time.Time  `json:"-"`
}

type ApplyPlanResponse struct {
	PlanID       string `json:"planId"`
	AppliedCount int    `json:"appliedCount"`
	SkippedCount int    `json:"skippedCount"`
	Message      string `json:"message"`
}

// NewPlanItemViews renders plan items with HH:mm clock strings.
func NewPlanItemViews(items []domain.RecoveryPlanItem) []PlanItemView {
	views := make([]PlanItemView, 0, len(items))
	for _, it := range items {
		views = append(views, PlanItemView{
			TaskID:           it.TaskID,
			Title:            it.Title,
			StartTime:        it.Start.String(),
			EndTime:          it.End.String(),
			DurationMinutes:  it.DurationMinutes,
			PriorityScore:    it.PriorityScore,
			ItemType:         it.ItemType,
			ActualAvgMinutes: it.ActualAvgMinutes,
		})
	}
	return views
}

// NewBuildPlanResponse renders a stored plan together with its end and buffer.
func NewBuildPlanResponse(p *domain.RecoveryPlan, estimatedEnd domain.Clock) *BuildPlanResponse {
	omitted := p.OmittedTaskIDs
	if omitted == nil {
		omitted = []string{}
	}
	return &BuildPlanResponse{
		PlanID:           p.ID,
		TargetDate:       p.TargetDate.Format("2006-01-02"),
		TriggerType:      p.TriggerType,
		TotalDuration:    p.TotalDuration,
		Plan:             NewPlanItemViews(p.Items),
		EstimatedEndTime: estimatedEnd.String(),
		BufferMinutes:    int(p.Bedtime - estimatedEnd),
		OmittedTaskIDs:   omitted,
		Applied:          p.Applied,
	}
}
