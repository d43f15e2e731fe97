package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/repository"
	"github.com/alexanderramin/rebound/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return testDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func settingsAt(now time.Time) Settings {
	return Settings{
		Location:       time.UTC,
		DefaultBedtime: domain.DefaultBedtime,
		Policy:         domain.PolicySkipOversized,
		Now:            func() time.Time { return now },
	}
}

func seedTasks(t *testing.T, database *sql.DB, tasks ...*domain.Task) {
	t.Helper()
	repo := repository.NewSQLiteTaskRepo(database)
	for _, task := range tasks {
		require.NoError(t, repo.Create(context.Background(), task))
	}
}

func loadTask(t *testing.T, database *sql.DB, userID, id string) *domain.Task {
	t.Helper()
	task, err := repository.NewSQLiteTaskRepo(database).GetByID(context.Background(), userID, id)
	require.NoError(t, err)
	return task
}

func requireCode(t *testing.T, err error, code contract.RecoveryErrorCode) {
	t.Helper()
	require.Error(t, err)
	re, ok := contract.AsRecoveryError(err)
	require.True(t, ok, "expected RecoveryError, got %v", err)
	require.Equal(t, code, re.Code, re.Message)
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt(i int) *int { return &i }

func pendingAt(userID, title string, scheduled time.Time, minutes, priority int, tags ...string) *domain.Task {
	return testutil.NewTestTask(userID, title,
		testutil.WithScheduledAt(scheduled),
		testutil.WithExpectedMinutes(minutes),
		testutil.WithPriority(priority),
		testutil.WithTags(tags...),
	)
}
