package testutil

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/google/uuid"
)

// Task options
type TaskOption func(*domain.Task)

func WithScheduledAt(t time.Time) TaskOption {
	return func(task *domain.Task) {
		task.ScheduledAt = t
	}
}

func WithExpectedMinutes(m int) TaskOption {
	return func(task *domain.Task) {
		task.ExpectedMinutes = m
	}
}

func WithPriority(p int) TaskOption {
	return func(task *domain.Task) {
		task.Priority = p
	}
}

func WithTags(tags ...string) TaskOption {
	return func(task *domain.Task) {
		task.Tags = domain.NormalizeTags(tags)
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(task *domain.Task) {
		task.Status = s
		if s == domain.TaskDone && task.CompletedAt == nil {
			at := task.ScheduledAt.Add(time.Duration(task.ExpectedMinutes) * time.Minute)
			task.CompletedAt = &at
		}
		if s != domain.TaskDone {
			task.CompletedAt = nil
		}
	}
}

func WithCompletedAt(t time.Time) TaskOption {
	return func(task *domain.Task) {
		task.Status = domain.TaskDone
		task.CompletedAt = &t
	}
}

func WithRecovered() TaskOption {
	return func(task *domain.Task) {
		task.IsRecovered = true
	}
}

func WithDescription(d string) TaskOption {
	return func(task *domain.Task) {
		task.Description = d
	}
}

// NewTestTask builds a pending 30-minute priority-3 task scheduled at
// 09:00 UTC today.
func NewTestTask(userID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	y, m, d := now.Date()
	task := &domain.Task{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           title,
		ScheduledAt:     time.Date(y, m, d, 9, 0, 0, 0, time.UTC),
		ExpectedMinutes: 30,
		Priority:        3,
		Status:          domain.TaskPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Plan options
type PlanOption func(*domain.RecoveryPlan)

func WithPlanItems(items ...domain.RecoveryPlanItem) PlanOption {
	return func(p *domain.RecoveryPlan) {
		p.Items = items
		p.TotalDuration = 0
		for _, it := range items {
			if it.ItemType == domain.ItemTask {
				p.TotalDuration += it.DurationMinutes
			}
		}
	}
}

func WithOmitted(ids ...string) PlanOption {
	return func(p *domain.RecoveryPlan) {
		p.OmittedTaskIDs = ids
	}
}

func WithApplied(at time.Time) PlanOption {
	return func(p *domain.RecoveryPlan) {
		p.Applied = true
		p.AppliedAt = &at
	}
}

// NewTestPlan builds an unapplied MANUAL plan for today with a 23:30 bedtime.
func NewTestPlan(userID string, opts ...PlanOption) *domain.RecoveryPlan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.RecoveryPlan{
		ID:          uuid.New().String(),
		UserID:      userID,
		TargetDate:  domain.DateOnly(now),
		Bedtime:     domain.DefaultBedtime,
		TriggerType: domain.TriggerManual,
		CreatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TaskItem builds a TASK plan item for task between start and end.
func TaskItem(task *domain.Task, start, end domain.Clock) domain.RecoveryPlanItem {
	return domain.RecoveryPlanItem{
		ItemType:        domain.ItemTask,
		TaskID:          task.ID,
		Title:           task.Title,
		Start:           start,
		End:             end,
		DurationMinutes: int(end - start),
	}
}
