package service

import (
	"context"
	"time"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/stats"
)

type RecoveryService interface {
	// BuildPlan evaluates the trigger rules and, when the user is behind,
	// packs and stores a recovery plan.
	BuildPlan(ctx context.Context, userID string, req contract.BuildPlanRequest) (*contract.BuildPlanResponse, error)
	// BuildManualPlan skips the trigger rules.
	BuildManualPlan(ctx context.Context, userID string, req contract.BuildPlanRequest) (*contract.BuildPlanResponse, error)
	GetPlan(ctx context.Context, userID, planID string) (*contract.BuildPlanResponse, error)
	ApplyPlan(ctx context.Context, userID string, req contract.ApplyPlanRequest) (*contract.ApplyPlanResponse, error)
}

type TaskService interface {
	Create(ctx context.Context, userID string, req contract.CreateTaskRequest) (*domain.Task, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	ListByDate(ctx context.Context, userID string, date time.Time) ([]*domain.Task, error)
	Complete(ctx context.Context, userID, id string, req contract.CompleteTaskRequest) (*domain.Task, error)
}

type StatsService interface {
	Daily(ctx context.Context, userID string, date time.Time) (*stats.DailyStats, error)
	Weekly(ctx context.Context, userID string) (*stats.WeeklyStats, error)
	Monthly(ctx context.Context, userID string, year int, month time.Month) (*stats.MonthlyStats, error)
	Tags(ctx context.Context, userID string) ([]stats.TagRollup, error)
}
