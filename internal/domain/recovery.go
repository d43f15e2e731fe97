package domain

import "time"

type RecoveryPlan struct {
	ID             string
	UserID         string
	TargetDate     time.Time
	Bedtime        Clock
	TriggerType    TriggerType
	Items          []RecoveryPlanItem
	OmittedTaskIDs []string
	TotalDuration  int
	Applied        bool
	AppliedAt      *time.Time
	CreatedAt      time.Time
}

// RecoveryPlanItem is one slot of a plan. TaskID, PriorityScore and
// ActualAvgMinutes are only meaningful for TASK items.
type RecoveryPlanItem struct {
	ItemType         ItemType `json:"itemType"`
	TaskID           string   `json:"taskId,omitempty"`
	Title            string   `json:"title"`
	Start            Clock    `json:"start"`
	End              Clock    `json:"end"`
	DurationMinutes  int      `json:"durationMinutes"`
	PriorityScore    float64  `json:"priorityScore"`
	ActualAvgMinutes *int     `json:"actualAvgMinutes,omitempty"`
}

// TaskItem looks up the TASK item for taskID.
func (p *RecoveryPlan) TaskItem(taskID string) (RecoveryPlanItem, bool) {
	for _, it := range p.Items {
		if it.ItemType == ItemTask && it.TaskID == taskID {
			return it, true
		}
	}
	return RecoveryPlanItem{}, false
}

// TaskItems returns the TASK items in plan order.
func (p *RecoveryPlan) TaskItems() []RecoveryPlanItem {
	var out []RecoveryPlanItem
	for _, it := range p.Items {
		if it.ItemType == ItemTask {
			out = append(out, it)
		}
	}
	return out
}
