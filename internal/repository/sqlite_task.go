package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/rebound/internal/db"
	"github.com/alexanderramin/rebound/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `t.id, t.user_id, t.title, t.description, t.scheduled_at, t.expected_minutes,
	t.priority, t.status, t.actual_avg_minutes, t.is_recovered, t.completed_at, t.created_at, t.updated_at,
	(SELECT group_concat(tag, char(31)) FROM task_tags WHERE task_id = t.id) AS tags`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, user_id, title, description, scheduled_at, expected_minutes,
		priority, status, actual_avg_minutes, is_recovered, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		formatTime(t.ScheduledAt),
		t.ExpectedMinutes,
		t.Priority,
		string(t.Status),
		nullableIntToValue(t.ActualAvgMinutes),
		boolToInt(t.IsRecovered),
		nullableTimeToString(t.CompletedAt),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return r.insertTags(ctx, t.ID, t.Tags)
}

func (r *SQLiteTaskRepo) insertTags(ctx context.Context, taskID string, tags []string) error {
	for _, tag := range tags {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?)`, taskID, tag); err != nil {
			return fmt.Errorf("inserting task tag %q: %w", tag, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = ? AND t.user_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, userID)
	return r.scanTask(row)
}

func (r *SQLiteTaskRepo) ListScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t
		WHERE t.user_id = ? AND t.scheduled_at >= ? AND t.scheduled_at < ?
		ORDER BY t.scheduled_at, t.id`
	rows, err := r.db.QueryContext(ctx, query, userID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("listing tasks by schedule: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListAll(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.user_id = ? ORDER BY t.scheduled_at, t.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

// Update writes the mutable fields of t. Tags are replaced wholesale.
func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, scheduled_at = ?, expected_minutes = ?,
		priority = ?, status = ?, actual_avg_minutes = ?, is_recovered = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		formatTime(t.ScheduledAt),
		t.ExpectedMinutes,
		t.Priority,
		string(t.Status),
		nullableIntToValue(t.ActualAvgMinutes),
		boolToInt(t.IsRecovered),
		nullableTimeToString(t.CompletedAt),
		formatTime(t.UpdatedAt),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing task tags: %w", err)
	}
	return r.insertTags(ctx, t.ID, t.Tags)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans a single task from a *sql.Row.
func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	t, err := r.scanInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// scanTasks scans multiple tasks from *sql.Rows.
func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := r.scanInto(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) scanInto(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var (
		scheduledAtStr, createdAtStr, updatedAtStr, status string
		actualAvg                                          sql.NullInt64
		isRecovered                                        int
		completedAt, tags                                  sql.NullString
	)
	err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &scheduledAtStr, &t.ExpectedMinutes,
		&t.Priority, &status, &actualAvg, &isRecovered, &completedAt, &createdAtStr, &updatedAtStr,
		&tags,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(status)
	t.ActualAvgMinutes = nullableInt(actualAvg)
	t.IsRecovered = intToBool(isRecovered)
	t.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	t.Tags = domain.NormalizeTags(splitTags(tags))
	return r.populateTask(&t, scheduledAtStr, createdAtStr, updatedAtStr)
}

// populateTask fills in parsed fields on a Task after scanning raw strings.
func (r *SQLiteTaskRepo) populateTask(t *domain.Task, scheduledAtStr, createdAtStr, updatedAtStr string) (*domain.Task, error) {
	var parseErr error
	t.ScheduledAt, parseErr = time.Parse(time.RFC3339, scheduledAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing scheduled_at: %w", parseErr)
	}
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return t, nil
}
