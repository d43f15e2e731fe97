package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// Every method takes the owning user's ID; rows belonging to other users
// are invisible and reported as ErrNotFound.

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	// ListScheduledBetween returns tasks with from <= scheduled_at < to,
	// ordered by scheduled time.
	ListScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.Task, error)
	ListAll(ctx context.Context, userID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
}

type RecoveryPlanRepo interface {
	Create(ctx context.Context, p *domain.RecoveryPlan) error
	GetByID(ctx context.Context, userID, id string) (*domain.RecoveryPlan, error)
	// MarkApplied flips applied from false to true. It reports false when
	// the plan does not exist for the user or was already applied.
	MarkApplied(ctx context.Context, userID, id string, at time.Time) (bool, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.RecoveryPlan, error)
}

type TagStatRepo interface {
	Get(ctx context.Context, userID, tag string) (*domain.TagStat, error)
	ListByUser(ctx context.Context, userID string) ([]domain.TagStat, error)
	Upsert(ctx context.Context, s *domain.TagStat) error
}
