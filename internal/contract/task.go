package contract

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

const DefaultPriority = 3

type CreateTaskRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description,omitempty" validate:"max=2000"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	ExpectedMinutes int       `json:"expectedMinutes" validate:"min=1,max=480"`
	Priority        int       `json:"priority,omitempty" validate:"omitempty,min=1,max=5"`
	Tags            []string  `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type CompleteTaskRequest struct {
	ActualMinutes *int       `json:"actualMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
	Now           *time.Time `json:"-"`
}

type TaskView struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	ScheduledAt      time.Time         `json:"scheduledAt"`
	ExpectedMinutes  int               `json:"expectedMinutes"`
	Priority         int               `json:"priority"`
	Status           domain.TaskStatus `json:"status"`
	Tags             []string          `json:"tags"`
	ActualAvgMinutes *int              `json:"actualAvgMinutes,omitempty"`
	IsRecovered      bool              `json:"isRecovered"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
}

func NewTaskView(t *domain.Task) TaskView {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskView{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		ScheduledAt:      t.ScheduledAt,
		ExpectedMinutes:  t.ExpectedMinutes,
		Priority:         t.Priority,
		Status:           t.Status,
		Tags:             tags,
		ActualAvgMinutes: t.ActualAvgMinutes,
		IsRecovered:      t.IsRecovered,
		CompletedAt:      t.CompletedAt,
	}
}
