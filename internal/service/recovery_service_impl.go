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

type recoveryService struct {
	uow      db.UnitOfWork
	settings Settings
	observer UseCaseObserver
}

func NewRecoveryService(uow db.UnitOfWork, settings Settings, observers ...UseCaseObserver) RecoveryService {
	return &recoveryService{
		uow:      uow,
		settings: settings.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *recoveryService) BuildPlan(ctx context.Context, userID string, req contract.BuildPlanRequest) (*contract.BuildPlanResponse, error) {
	return s.build(ctx, "build-recovery-plan", userID, req, false)
}

func (s *recoveryService) BuildManualPlan(ctx context.Context, userID string, req contract.BuildPlanRequest) (*contract.BuildPlanResponse, error) {
	return s.build(ctx, "build-manual-recovery-plan", userID, req, true)
}

func (s *recoveryService) build(ctx context.Context, name, userID string, req contract.BuildPlanRequest, manual bool) (resp *contract.BuildPlanResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"manual": manual}
	defer func() { observe(ctx, s.observer, name, userID, startedAt, fields, &err) }()

	if err = contract.Validate(req); err != nil {
		return nil, err
	}

	now := s.settings.now(req.Now)
	targetDate := now
	if req.TargetDate != "" {
		if targetDate, err = time.ParseInLocation("2006-01-02", req.TargetDate, s.settings.Location); err != nil {
			return nil, contract.NewError(contract.ErrInvalidInput, fmt.Sprintf("targetDate %q: %v", req.TargetDate, err))
		}
	}
	bedtime := s.settings.DefaultBedtime
	if req.Bedtime != "" {
		if bedtime, err = domain.ParseClock(req.Bedtime); err != nil {
			return nil, contract.NewError(contract.ErrInvalidInput, err.Error())
		}
	}
	dayStart, dayEnd := s.settings.dayBounds(targetDate)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txTagStats := repository.NewSQLiteTagStatRepo(tx)
		txPlans := repository.NewSQLiteRecoveryPlanRepo(tx)

		dayTasks, err := txTasks.ListScheduledBetween(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		incomplete := make([]domain.Task, 0, len(dayTasks))
		for _, t := range dayTasks {
			if t.IsIncomplete() {
				incomplete = append(incomplete, *t)
			}
		}
		fields["incomplete"] = len(incomplete)

		trigger := domain.TriggerManual
		if !manual {
			decision := scheduler.EvaluateTrigger(incomplete, now)
			if !decision.Eligible {
				return contract.NewError(contract.ErrNotWarranted, fmt.Sprintf(
					"recovery not warranted: %d incomplete tasks at %s (needs %d or later than %s)",
					decision.IncompleteCount, decision.Clock, scheduler.IncompleteThreshold, domain.After17))
			}
			trigger = decision.Type
		}
		if len(incomplete) == 0 {
			return contract.NewError(contract.ErrNothingToRecover,
				fmt.Sprintf("no incomplete tasks on %s", dayStart.Format("2006-01-02")))
		}

		tagStats, err := txTagStats.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("loading tag stats: %w", err)
		}
		byTag := make(map[string]domain.TagStat, len(tagStats))
		for _, st := range tagStats {
			byTag[st.Tag] = st
		}

		candidates := make([]scheduler.Candidate, 0, len(incomplete))
		for _, t := range incomplete {
			c := scheduler.Candidate{Task: t}
			if best, ok := scheduler.BestSampledTag(t.Tags, byTag); ok {
				avg := best.AvgActualMinutes
				c.LearnedAvg = &avg
				c.Samples = best.SampleCount
			}
			candidates = append(candidates, c)
		}

		packed := scheduler.BuildRecoveryPlan(scheduler.PackInput{
			Candidates: candidates,
			Now:        now,
			Bedtime:    bedtime,
			Policy:     s.settings.Policy,
		})
		if len(packed.Items) == 0 {
			return contract.NewError(contract.ErrEmptyPlan, fmt.Sprintf(
				"no placeable tasks between %s and bedtime %s", packed.Start, bedtime))
		}

		plan := &domain.RecoveryPlan{
			ID:             uuid.New().String(),
			UserID:         userID,
			TargetDate:     dayStart,
			Bedtime:        bedtime,
			TriggerType:    trigger,
			Items:          packed.Items,
			OmittedTaskIDs: packed.OmittedTaskIDs,
			TotalDuration:  packed.TotalDuration,
			CreatedAt:      now,
		}
		if err := txPlans.Create(ctx, plan); err != nil {
			return err
		}
		fields["plan_id"] = plan.ID
		fields["trigger"] = string(trigger)
		fields["placed"] = len(plan.TaskItems())
		fields["omitted"] = len(plan.OmittedTaskIDs)
		resp = contract.NewBuildPlanResponse(plan, packed.EstimatedEnd)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *recoveryService) GetPlan(ctx context.Context, userID, planID string) (*contract.BuildPlanResponse, error) {
	var resp *contract.BuildPlanResponse
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plan, err := repository.NewSQLiteRecoveryPlanRepo(tx).GetByID(ctx, userID, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return contract.NewError(contract.ErrPlanNotFound, fmt.Sprintf("recovery plan %s not found", planID))
			}
			return err
		}
		end := plan.Bedtime
		if n := len(plan.Items); n > 0 {
			end = plan.Items[n-1].End
		}
		resp = contract.NewBuildPlanResponse(plan, end)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type assignment struct {
	taskID     string
	start, end domain.Clock
}

func (s *recoveryService) ApplyPlan(ctx context.Context, userID string, req contract.ApplyPlanRequest) (resp *contract.ApplyPlanResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"plan_id": req.PlanID}
	defer func() { observe(ctx, s.observer, "apply-recovery-plan", userID, startedAt, fields, &err) }()

	if err = contract.Validate(req); err != nil {
		return nil, err
	}
	now := s.settings.now(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLiteRecoveryPlanRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		// The conditional update comes first so the write lock is held
		// before anything is read.
		won, err := txPlans.MarkApplied(ctx, userID, req.PlanID, now)
		if err != nil {
			return err
		}
		plan, err := txPlans.GetByID(ctx, userID, req.PlanID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return contract.NewError(contract.ErrPlanNotFound, fmt.Sprintf("recovery plan %s not found", req.PlanID))
			}
			return err
		}
		if !won {
			return contract.NewError(contract.ErrPlanAlreadyApplied, fmt.Sprintf("recovery plan %s was already applied", req.PlanID))
		}

		assignments, err := resolveAssignments(plan, req.Items)
		if err != nil {
			return err
		}

		selected := make(map[string]bool, len(assignments))
		day, _ := s.settings.dayBounds(plan.TargetDate)
		applied := 0
		for _, a := range assignments {
			selected[a.taskID] = true
			task, err := txTasks.GetByID(ctx, userID, a.taskID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return contract.NewError(contract.ErrTaskNotFound, fmt.Sprintf("task %s not found", a.taskID))
				}
				return err
			}
			if task.Status == domain.TaskDone {
				continue
			}
			task.Reschedule(a.start.On(day), now)
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
			applied++
		}

		omitted := append([]string(nil), plan.OmittedTaskIDs...)
		for _, it := range plan.TaskItems() {
			if !selected[it.TaskID] {
				omitted = append(omitted, it.TaskID)
			}
		}
		skipped := 0
		for _, id := range omitted {
			task, err := txTasks.GetByID(ctx, userID, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
			if !task.MarkSkipped(now) {
				continue
			}
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
			skipped++
		}

		fields["applied"] = applied
		fields["skipped"] = skipped
		resp = &contract.ApplyPlanResponse{
			PlanID:       plan.ID,
			AppliedCount: applied,
			SkippedCount: skipped,
			Message:      fmt.Sprintf("applied %d tasks from recovery plan, skipped %d", applied, skipped),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// resolveAssignments turns the request items into slots. With no items the
// plan's own task slots are used. Every item must name a task of the plan
// exactly once and carry start < end.
func resolveAssignments(plan *domain.RecoveryPlan, items []contract.ApplyItem) ([]assignment, error) {
	if len(items) == 0 {
		var out []assignment
		for _, it := range plan.TaskItems() {
			out = append(out, assignment{taskID: it.TaskID, start: it.Start, end: it.End})
		}
		return out, nil
	}

	seen := make(map[string]bool, len(items))
	out := make([]assignment, 0, len(items))
	for _, it := range items {
		if _, ok := plan.TaskItem(it.TaskID); !ok {
			return nil, contract.NewError(contract.ErrInvalidInput,
				fmt.Sprintf("task %s is not part of recovery plan %s", it.TaskID, plan.ID))
		}
		if seen[it.TaskID] {
			return nil, contract.NewError(contract.ErrInvalidInput, fmt.Sprintf("task %s listed twice", it.TaskID))
		}
		seen[it.TaskID] = true

		start, err := domain.ParseClock(it.StartTime)
		if err != nil {
			return nil, contract.NewError(contract.ErrInvalidInput, err.Error())
		}
		end, err := domain.ParseClock(it.EndTime)
		if err != nil {
			return nil, contract.NewError(contract.ErrInvalidInput, err.Error())
		}
		if start >= end {
			return nil, contract.NewError(contract.ErrInvalidInput,
				fmt.Sprintf("task %s: start %s must be before end %s", it.TaskID, start, end))
		}
		out = append(out, assignment{taskID: it.TaskID, start: start, end: end})
	}
	return out, nil
}
