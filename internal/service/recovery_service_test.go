package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/alexanderramin/rebound/internal/db"
	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/alexanderramin/rebound/internal/repository"
	"github.com/alexanderramin/rebound/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlan_NotWarranted(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTasks(t, database,
		pendingAt("u1", "A", at(9, 0), 30, 1),
		pendingAt("u1", "B", at(10, 0), 30, 2),
	)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(10, 0)))

	_, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	requireCode(t, err, contract.ErrNotWarranted)
	assert.Contains(t, err.Error(), "2 incomplete tasks at 10:00")
}

func TestBuildPlan_IncompleteCountTrigger(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTasks(t, database,
		pendingAt("u1", "A", at(9, 0), 30, 1),
		pendingAt("u1", "B", at(10, 0), 30, 2),
		pendingAt("u1", "C", at(11, 0), 30, 3),
	)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(12, 2)))

	resp, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerIncompleteCount, resp.TriggerType)
	assert.Equal(t, "2025-03-10", resp.TargetDate)
	require.Len(t, resp.Plan, 5)
	assert.Equal(t, "12:05", resp.Plan[0].StartTime)
	assert.Equal(t, "A", resp.Plan[0].Title)
	assert.Equal(t, domain.ItemBreak, resp.Plan[1].ItemType)
	assert.Equal(t, 90, resp.TotalDuration)
	assert.Equal(t, "13:45", resp.EstimatedEndTime)
	assert.Equal(t, 23*60+30-(13*60+45), resp.BufferMinutes)
}

func TestBuildPlan_After17WinsTie(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTasks(t, database,
		pendingAt("u1", "A", at(9, 0), 30, 1),
		pendingAt("u1", "B", at(10, 0), 30, 2),
		pendingAt("u1", "C", at(11, 0), 30, 3),
	)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(18, 0)))

	resp, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerAfter17, resp.TriggerType)
}

func TestBuildManualPlan_ScenarioLayout(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", at(9, 0), 30, 1)
	b := pendingAt("u1", "B", at(10, 0), 45, 2)
	seedTasks(t, database, a, b)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(16, 30)))

	resp, err := svc.BuildManualPlan(context.Background(), "u1", contract.BuildPlanRequest{Bedtime: "18:00"})
	require.NoError(t, err)

	assert.Equal(t, domain.TriggerManual, resp.TriggerType)
	require.Len(t, resp.Plan, 3)
	assert.Equal(t, a.ID, resp.Plan[0].TaskID)
	assert.Equal(t, "16:30", resp.Plan[0].StartTime)
	assert.Equal(t, "17:00", resp.Plan[0].EndTime)
	assert.Equal(t, "17:00", resp.Plan[1].StartTime)
	assert.Equal(t, "17:05", resp.Plan[1].EndTime)
	assert.Equal(t, b.ID, resp.Plan[2].TaskID)
	assert.Equal(t, "17:05", resp.Plan[2].StartTime)
	assert.Equal(t, "17:50", resp.Plan[2].EndTime)
	assert.Equal(t, "17:50", resp.EstimatedEndTime)
	assert.Equal(t, 10, resp.BufferMinutes)
	assert.Equal(t, 75, resp.TotalDuration)

	stored, err := svc.GetPlan(context.Background(), "u1", resp.PlanID)
	require.NoError(t, err)
	assert.Equal(t, resp.Plan, stored.Plan)
	assert.Equal(t, resp.BufferMinutes, stored.BufferMinutes)
	assert.False(t, stored.Applied)
}

func TestBuildManualPlan_NothingToRecover(t *testing.T) {
	database := testutil.NewTestDB(t)
	done := pendingAt("u1", "done", at(9, 0), 30, 1)
	require.NoError(t, done.MarkDone(at(10, 0)))
	inProgress := pendingAt("u1", "busy", at(9, 0), 30, 1)
	inProgress.Status = domain.TaskInProgress
	seedTasks(t, database, done, inProgress, pendingAt("u2", "foreign", at(9, 0), 30, 1))
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0)))

	_, err := svc.BuildManualPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	requireCode(t, err, contract.ErrNothingToRecover)

	_, err = svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	requireCode(t, err, contract.ErrNothingToRecover)
}

func TestBuildPlan_EmptyPlanNotPersisted(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTasks(t, database, pendingAt("u1", "long", at(9, 0), 90, 1))
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(23, 0)))

	_, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	requireCode(t, err, contract.ErrEmptyPlan)

	plans, err := repository.NewSQLiteRecoveryPlanRepo(database).ListRecent(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestBuildPlan_InvalidInput(t *testing.T) {
	svc := NewRecoveryService(testutil.NewTestUoW(testutil.NewTestDB(t)), settingsAt(at(18, 0)))

	_, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{Bedtime: "26:00"})
	requireCode(t, err, contract.ErrInvalidInput)
}

func TestBuildPlan_TargetDate(t *testing.T) {
	database := testutil.NewTestDB(t)
	tomorrow := testDay.AddDate(0, 0, 1)
	seedTasks(t, database,
		pendingAt("u1", "today", at(9, 0), 30, 1),
		pendingAt("u1", "tomorrow", tomorrow.Add(9*time.Hour), 30, 1),
	)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(18, 0)))

	resp, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{TargetDate: "2025-03-11"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.TargetDate)
	require.Len(t, resp.Plan, 1)
	assert.Equal(t, "tomorrow", resp.Plan[0].Title)
}

func TestBuildPlan_UsesLearnedDuration(t *testing.T) {
	database := testutil.NewTestDB(t)
	essay := pendingAt("u1", "essay", at(9, 0), 30, 1, "essay")
	seedTasks(t, database, essay)
	require.NoError(t, repository.NewSQLiteTagStatRepo(database).Upsert(context.Background(), &domain.TagStat{
		UserID: "u1", Tag: "essay", SampleCount: 5, AvgActualMinutes: 60, UpdatedAt: at(8, 0),
	}))
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(18, 0)))

	resp, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Plan, 1)
	assert.Equal(t, 60, resp.Plan[0].DurationMinutes)
	require.NotNil(t, resp.Plan[0].ActualAvgMinutes)
	assert.Equal(t, 60, *resp.Plan[0].ActualAvgMinutes)
}

func TestBuildPlan_ObserverReceivesOutcome(t *testing.T) {
	database := testutil.NewTestDB(t)
	var events []UseCaseEvent
	obs := observerFunc(func(_ context.Context, e UseCaseEvent) { events = append(events, e) })
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(10, 0)), obs)

	_, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{})
	require.Error(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "build-recovery-plan", events[0].Name)
	assert.Equal(t, "u1", events[0].UserID)
	assert.False(t, events[0].Success)
	assert.Equal(t, 0, events[0].Fields["incomplete"])
}

// buildAfter17 seeds the three tasks and returns a stored plan over them.
func buildAfter17(t *testing.T, svc RecoveryService, bedtime string) *contract.BuildPlanResponse {
	t.Helper()
	resp, err := svc.BuildPlan(context.Background(), "u1", contract.BuildPlanRequest{Bedtime: bedtime})
	require.NoError(t, err)
	return resp
}

func TestApplyPlan_AsBuilt(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", at(9, 0), 30, 1)
	b := pendingAt("u1", "B", at(10, 0), 45, 2)
	b.Status = domain.TaskSkipped
	big := pendingAt("u1", "big", at(11, 0), 240, 3)
	seedTasks(t, database, a, b, big)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0)))
	plan := buildAfter17(t, svc, "21:00")
	require.Equal(t, []string{big.ID}, plan.OmittedTaskIDs)

	resp, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: plan.PlanID})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.AppliedCount)
	assert.Equal(t, 1, resp.SkippedCount)

	gotA := loadTask(t, database, "u1", a.ID)
	assert.True(t, at(19, 0).Equal(gotA.ScheduledAt))
	assert.True(t, gotA.IsRecovered)
	assert.Equal(t, domain.TaskPending, gotA.Status)

	gotB := loadTask(t, database, "u1", b.ID)
	assert.True(t, at(19, 35).Equal(gotB.ScheduledAt))
	assert.Equal(t, domain.TaskPending, gotB.Status, "skipped tasks are reactivated")
	assert.True(t, gotB.IsRecovered)

	gotBig := loadTask(t, database, "u1", big.ID)
	assert.Equal(t, domain.TaskSkipped, gotBig.Status)
	assert.False(t, gotBig.IsRecovered)
	assert.True(t, at(11, 0).Equal(gotBig.ScheduledAt))

	stored, err := svc.GetPlan(context.Background(), "u1", plan.PlanID)
	require.NoError(t, err)
	assert.True(t, stored.Applied)
}

func TestApplyPlan_DSTDayKeepsPlannedWallClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, ny)

	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", day.Add(9*time.Hour), 30, 1)
	seedTasks(t, database, a)
	settings := settingsAt(time.Date(2025, 3, 9, 17, 0, 0, 0, ny))
	settings.Location = ny
	svc := NewRecoveryService(testutil.NewTestUoW(database), settings)

	plan := buildAfter17(t, svc, "21:00")
	require.Len(t, plan.Plan, 1)
	assert.Equal(t, "17:00", plan.Plan[0].StartTime)

	_, err = svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: plan.PlanID})
	require.NoError(t, err)

	got := loadTask(t, database, "u1", a.ID).ScheduledAt.In(ny)
	assert.True(t, time.Date(2025, 3, 9, 17, 0, 0, 0, ny).Equal(got), "got %s", got)
	assert.Equal(t, plan.Plan[0].StartTime, domain.ClockOf(got).String())
}

func TestApplyPlan_CustomTimesAndDroppedItems(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", at(9, 0), 30, 1)
	b := pendingAt("u1", "B", at(10, 0), 30, 2)
	seedTasks(t, database, a, b)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0)))
	plan := buildAfter17(t, svc, "")

	resp, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{
		PlanID: plan.PlanID,
		Items:  []contract.ApplyItem{{TaskID: a.ID, StartTime: "20:15", EndTime: "20:45"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AppliedCount)
	assert.Equal(t, 1, resp.SkippedCount)

	assert.True(t, at(20, 15).Equal(loadTask(t, database, "u1", a.ID).ScheduledAt))
	assert.Equal(t, domain.TaskSkipped, loadTask(t, database, "u1", b.ID).Status)
}

func TestApplyPlan_Twice(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", at(9, 0), 30, 1)
	seedTasks(t, database, a)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0)))
	plan := buildAfter17(t, svc, "")

	_, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: plan.PlanID})
	require.NoError(t, err)
	before := loadTask(t, database, "u1", a.ID)

	_, err = svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{
		PlanID: plan.PlanID,
		Items:  []contract.ApplyItem{{TaskID: a.ID, StartTime: "22:00", EndTime: "22:30"}},
	})
	requireCode(t, err, contract.ErrPlanAlreadyApplied)
	assert.Equal(t, before.ScheduledAt, loadTask(t, database, "u1", a.ID).ScheduledAt)
}

func TestApplyPlan_OtherUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTasks(t, database, pendingAt("u1", "A", at(9, 0), 30, 1))
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0)))
	plan := buildAfter17(t, svc, "")

	_, err := svc.ApplyPlan(context.Background(), "u2", contract.ApplyPlanRequest{PlanID: plan.PlanID})
	requireCode(t, err, contract.ErrPlanNotFound)

	_, err = svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: "missing"})
	requireCode(t, err, contract.ErrPlanNotFound)

	_, err = svc.GetPlan(context.Background(), "u2", plan.PlanID)
	requireCode(t, err, contract.ErrPlanNotFound)
}

func TestApplyPlan_InvalidItemsRollBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", at(9, 0), 30, 1)
	seedTasks(t, database, a)
	svc := NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0)))
	plan := buildAfter17(t, svc, "")

	cases := []contract.ApplyItem{
		{TaskID: "not-in-plan", StartTime: "20:00", EndTime: "20:30"},
		{TaskID: a.ID, StartTime: "20:30", EndTime: "20:00"},
		{TaskID: a.ID, StartTime: "20:30", EndTime: "20:30"},
	}
	for _, item := range cases {
		_, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{
			PlanID: plan.PlanID, Items: []contract.ApplyItem{item},
		})
		requireCode(t, err, contract.ErrInvalidInput)
	}

	_, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{
		PlanID: plan.PlanID,
		Items: []contract.ApplyItem{
			{TaskID: a.ID, StartTime: "20:00", EndTime: "20:30"},
			{TaskID: a.ID, StartTime: "21:00", EndTime: "21:30"},
		},
	})
	requireCode(t, err, contract.ErrInvalidInput)

	// The rejected attempts must not have consumed the plan.
	_, err = svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: plan.PlanID})
	require.NoError(t, err)
}

func TestApplyPlan_StoreFailureRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := pendingAt("u1", "A", at(9, 0), 30, 1)
	seedTasks(t, database, a)
	plan := buildAfter17(t, NewRecoveryService(testutil.NewTestUoW(database), settingsAt(at(19, 0))), "")

	boom := errors.New("disk full")
	// Exec 1 marks the plan applied, exec 2 rewrites the task row.
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom}
	svc := NewRecoveryService(failing, settingsAt(at(19, 0)))

	_, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: plan.PlanID})
	require.ErrorIs(t, err, boom)
	_, isBusiness := contract.AsRecoveryError(err)
	assert.False(t, isBusiness)

	stored, err := repository.NewSQLiteRecoveryPlanRepo(database).GetByID(context.Background(), "u1", plan.PlanID)
	require.NoError(t, err)
	assert.False(t, stored.Applied)
	assert.False(t, loadTask(t, database, "u1", a.ID).IsRecovered)
}

func TestApplyPlan_ConcurrentExactlyOnce(t *testing.T) {
	database := testutil.NewFileTestDB(t)

	seedTasks(t, database, pendingAt("u1", "A", at(9, 0), 30, 1), pendingAt("u1", "B", at(9, 30), 30, 2))
	svc := NewRecoveryService(db.NewSQLiteUnitOfWork(database), settingsAt(at(19, 0)))
	plan := buildAfter17(t, svc, "")

	const workers = 10
	var ok, already atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyPlan(context.Background(), "u1", contract.ApplyPlanRequest{PlanID: plan.PlanID})
			if err == nil {
				ok.Add(1)
				return
			}
			if re, isRE := contract.AsRecoveryError(err); isRE && re.Code == contract.ErrPlanAlreadyApplied {
				already.Add(1)
				return
			}
			t.Errorf("unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(workers-1), already.Load())
}

type observerFunc func(ctx context.Context, e UseCaseEvent)

func (f observerFunc) ObserveUseCase(ctx context.Context, e UseCaseEvent) { f(ctx, e) }

