package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/rebound/internal/db"
	"github.com/alexanderramin/rebound/internal/domain"
)

// SQLiteRecoveryPlanRepo implements RecoveryPlanRepo using a SQLite database.
// Plan items are stored as a JSON document alongside the plan row.
type SQLiteRecoveryPlanRepo struct {
	db db.DBTX
}

// NewSQLiteRecoveryPlanRepo creates a new SQLiteRecoveryPlanRepo.
func NewSQLiteRecoveryPlanRepo(db db.DBTX) *SQLiteRecoveryPlanRepo {
	return &SQLiteRecoveryPlanRepo{db: db}
}

const planColumns = `id, user_id, target_date, bedtime, trigger_type, items_json, omitted_task_ids,
	total_duration, applied, applied_at, created_at`

func (r *SQLiteRecoveryPlanRepo) Create(ctx context.Context, p *domain.RecoveryPlan) error {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("encoding plan items: %w", err)
	}
	omitted := p.OmittedTaskIDs
	if omitted == nil {
		omitted = []string{}
	}
	omittedJSON, err := json.Marshal(omitted)
	if err != nil {
		return fmt.Errorf("encoding omitted task ids: %w", err)
	}

	query := `INSERT INTO recovery_plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.TargetDate.Format(dateLayout),
		p.Bedtime.String(),
		string(p.TriggerType),
		string(items),
		string(omittedJSON),
		p.TotalDuration,
		boolToInt(p.Applied),
		nullableTimeToString(p.AppliedAt),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting recovery plan: %w", err)
	}
	return nil
}

func (r *SQLiteRecoveryPlanRepo) GetByID(ctx context.Context, userID, id string) (*domain.RecoveryPlan, error) {
	query := `SELECT ` + planColumns + ` FROM recovery_plans WHERE id = ? AND user_id = ?`
	p, err := r.scanInto(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recovery plan: %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRecoveryPlanRepo) MarkApplied(ctx context.Context, userID, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recovery_plans SET applied = 1, applied_at = ?
		 WHERE id = ? AND user_id = ? AND applied = 0`,
		formatTime(at), id, userID)
	if err != nil {
		return false, fmt.Errorf("marking recovery plan applied: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking applied recovery plan: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteRecoveryPlanRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.RecoveryPlan, error) {
	query := `SELECT ` + planColumns + ` FROM recovery_plans
		WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recovery plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.RecoveryPlan
	for rows.Next() {
		p, err := r.scanInto(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recovery plans: %w", err)
	}
	return plans, nil
}

func (r *SQLiteRecoveryPlanRepo) scanInto(s rowScanner) (*domain.RecoveryPlan, error) {
	var p domain.RecoveryPlan
	var (
		targetDate, bedtime, trigger, itemsJSON, omittedJSON, createdAtStr string
		applied                                                            int
		appliedAt                                                          sql.NullString
	)
	err := s.Scan(&p.ID, &p.UserID, &targetDate, &bedtime, &trigger, &itemsJSON, &omittedJSON,
		&p.TotalDuration, &applied, &appliedAt, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning recovery plan: %w", err)
	}

	p.TriggerType = domain.TriggerType(trigger)
	p.Applied = intToBool(applied)
	p.AppliedAt = parseNullableTime(appliedAt, time.RFC3339)

	if p.TargetDate, err = time.Parse(dateLayout, targetDate); err != nil {
		return nil, fmt.Errorf("parsing target_date: %w", err)
	}
	if p.Bedtime, err = domain.ParseClock(bedtime); err != nil {
		return nil, fmt.Errorf("parsing bedtime: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &p.Items); err != nil {
		return nil, fmt.Errorf("decoding plan items: %w", err)
	}
	if err := json.Unmarshal([]byte(omittedJSON), &p.OmittedTaskIDs); err != nil {
		return nil, fmt.Errorf("decoding omitted task ids: %w", err)
	}
	return &p, nil
}
