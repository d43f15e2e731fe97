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

// SQLiteTagStatRepo implements TagStatRepo using a SQLite database.
type SQLiteTagStatRepo struct {
	db db.DBTX
}

// NewSQLiteTagStatRepo creates a new SQLiteTagStatRepo.
func NewSQLiteTagStatRepo(db db.DBTX) *SQLiteTagStatRepo {
	return &SQLiteTagStatRepo{db: db}
}

func (r *SQLiteTagStatRepo) Get(ctx context.Context, userID, tag string) (*domain.TagStat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, tag, sample_count, avg_actual_minutes, updated_at
		 FROM tag_stats WHERE user_id = ? AND tag = ?`, userID, tag)
	s, err := scanTagStat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag stat %q: %w", tag, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteTagStatRepo) ListByUser(ctx context.Context, userID string) ([]domain.TagStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, tag, sample_count, avg_actual_minutes, updated_at
		 FROM tag_stats WHERE user_id = ? ORDER BY tag`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tag stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.TagStat
	for rows.Next() {
		s, err := scanTagStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag stats: %w", err)
	}
	return stats, nil
}

func (r *SQLiteTagStatRepo) Upsert(ctx context.Context, s *domain.TagStat) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tag_stats (user_id, tag, sample_count, avg_actual_minutes, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, tag) DO UPDATE SET
		   sample_count = excluded.sample_count,
		   avg_actual_minutes = excluded.avg_actual_minutes,
		   updated_at = excluded.updated_at`,
		s.UserID, s.Tag, s.SampleCount, s.AvgActualMinutes, formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting tag stat: %w", err)
	}
	return nil
}

func scanTagStat(s rowScanner) (*domain.TagStat, error) {
	var st domain.TagStat
	var updatedAt string
	if err := s.Scan(&st.UserID, &st.Tag, &st.SampleCount, &st.AvgActualMinutes, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning tag stat: %w", err)
	}
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	st.UpdatedAt = t
	return &st, nil
}
