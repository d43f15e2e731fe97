package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/rebound/internal/db"
	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/repository"
	"github.com/alexanderramin/rebound/internal/stats"
)

// StreakHistoryDays bounds how far back the current streak is traced.
const StreakHistoryDays = 365

type statsService struct {
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewStatsService(uow db.UnitOfWork, settings Settings, observers ...UseCaseObserver) StatsService {
	return &statsService{
		uow:      uow,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// snapshot reads tasks in [from, to) and, when withTags is set, the user's
// tag stats inside one transaction.
func (s *statsService) snapshot(ctx context.Context, userID string, from, to time.Time, withTags bool) ([]*domain.Task, []domain.TagStat, error) {
	var tasks []*domain.Task
	var tagStats []domain.TagStat
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if from.IsZero() {
			tasks, err = repository.NewSQLiteTaskRepo(tx).ListAll(ctx, userID)
		} else {
			tasks, err = repository.NewSQLiteTaskRepo(tx).ListScheduledBetween(ctx, userID, from, to)
		}
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		if withTags {
			if tagStats, err = repository.NewSQLiteTagStatRepo(tx).ListByUser(ctx, userID); err != nil {
				return fmt.Errorf("loading tag stats: %w", err)
			}
		}
		return nil
	})
	return tasks, tagStats, err
}

func (s *statsService) Daily(ctx context.Context, userID string, date time.Time) (out *stats.DailyStats, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "stats-daily", userID, startedAt, nil, &err) }()

	start, end := s.settings.dayBounds(date)
	tasks, _, err := s.snapshot(ctx, userID, start.AddDate(0, 0, -stats.HistoryWindowDays), end, false)
	if err != nil {
		return nil, err
	}
	d := stats.Daily(tasks, start, s.settings.Location)
	return &d, nil
}

func (s *statsService) Weekly(ctx context.Context, userID string) (out *stats.WeeklyStats, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "stats-weekly", userID, startedAt, nil, &err) }()

	today := s.settings.now(nil)
	start, end := s.settings.dayBounds(today)
	tasks, tagStats, err := s.snapshot(ctx, userID, start.AddDate(0, 0, -StreakHistoryDays), end, true)
	if err != nil {
		return nil, err
	}
	w := stats.Weekly(tasks, tagStats, today, s.settings.Location)
	return &w, nil
}

func (s *statsService) Monthly(ctx context.Context, userID string, year int, month time.Month) (out *stats.MonthlyStats, err error) {
	startedAt := time.Now()
	fields := map[string]any{"year": year, "month": int(month)}
	defer func() { observe(ctx, s.observer, "stats-monthly", userID, startedAt, fields, &err) }()

	first := time.Date(year, month, 1, 0, 0, 0, 0, s.settings.Location)
	tasks, _, err := s.snapshot(ctx, userID, first, first.AddDate(0, 1, 0), false)
	if err != nil {
		return nil, err
	}
	m := stats.Monthly(tasks, year, month, s.settings.Location)
	return &m, nil
}

func (s *statsService) Tags(ctx context.Context, userID string) (out []stats.TagRollup, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "stats-tags", userID, startedAt, nil, &err) }()

	tasks, tagStats, err := s.snapshot(ctx, userID, time.Time{}, time.Time{}, true)
	if err != nil {
		return nil, err
	}
	return stats.TagRollups(tasks, tagStats), nil
}
