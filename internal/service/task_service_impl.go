package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/alexanderramin/rebound/internal/db"
	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/repository"
	"github.com/alexanderramin/rebound/internal/scheduler"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, settings Settings, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, userID string, req contract.CreateTaskRequest) (*domain.Task, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == 0 {
		priority = contract.DefaultPriority
	}
	now := s.settings.Now().UTC()
	task := &domain.Task{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		ScheduledAt:     req.ScheduledAt,
		ExpectedMinutes: req.ExpectedMinutes,
		Priority:        priority,
		Status:          domain.TaskPending,
		Tags:            domain.NormalizeTags(req.Tags),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := task.Validate(); err != nil {
		return nil, contract.NewError(contract.ErrInvalidInput, err.Error())
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, taskLookupError(id, err)
	}
	return task, nil
}

func (s *taskService) ListByDate(ctx context.Context, userID string, date time.Time) ([]*domain.Task, error) {
	from, to := s.settings.dayBounds(date)
	return s.tasks.ListScheduledBetween(ctx, userID, from, to)
}

// Complete marks the task done and, when actual minutes are reported, folds
// them into the running average of every tag on the task. The task's own
// learned average becomes that of its best-sampled tag.
func (s *taskService) Complete(ctx context.Context, userID, id string, req contract.CompleteTaskRequest) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "complete-task", userID, startedAt, fields, &err) }()

	if err = contract.Validate(req); err != nil {
		return nil, err
	}
	now := s.settings.now(req.Now).UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTagStats := repository.NewSQLiteTagStatRepo(tx)

		t, err := txTasks.GetByID(ctx, userID, id)
		if err != nil {
			return taskLookupError(id, err)
		}
		if err := t.MarkDone(now); err != nil {
			if errors.Is(err, domain.ErrTaskAlreadyCompleted) {
				return contract.NewError(contract.ErrTaskAlreadyComplete, fmt.Sprintf("task %s is already completed", id))
			}
			return err
		}

		if req.ActualMinutes != nil {
			actual := *req.ActualMinutes
			fields["actual_minutes"] = actual
			updated := make(map[string]domain.TagStat, len(t.Tags))
			for _, tag := range t.Tags {
				st, err := recordSample(ctx, txTagStats, userID, tag, actual, now)
				if err != nil {
					return err
				}
				updated[tag] = *st
			}
			if best, ok := scheduler.BestSampledTag(t.Tags, updated); ok {
				avg := scheduler.RoundMinutes(best.AvgActualMinutes)
				t.ActualAvgMinutes = &avg
			} else {
				t.ActualAvgMinutes = &actual
			}
		}

		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func recordSample(ctx context.Context, repo repository.TagStatRepo, userID, tag string, actual int, now time.Time) (*domain.TagStat, error) {
	st, err := repo.Get(ctx, userID, tag)
	var prior *float64
	switch {
	case err == nil:
		avg := st.AvgActualMinutes
		prior = &avg
	case errors.Is(err, repository.ErrNotFound):
		st = &domain.TagStat{UserID: userID, Tag: tag}
	default:
		return nil, fmt.Errorf("loading tag stat %q: %w", tag, err)
	}

	st.SampleCount++
	st.AvgActualMinutes = scheduler.IncrementalMean(prior, st.SampleCount, actual)
	st.UpdatedAt = now
	if err := repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func taskLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return contract.NewError(contract.ErrTaskNotFound, fmt.Sprintf("task %s not found", id))
	}
	return err
}
