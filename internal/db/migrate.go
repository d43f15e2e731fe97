package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// full list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		scheduled_at       TEXT NOT NULL,
		expected_minutes   INTEGER NOT NULL CHECK(expected_minutes BETWEEN 1 AND 480),
		priority           INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 5),
		status             TEXT NOT NULL DEFAULT 'PENDING'
		                   CHECK(status IN ('PENDING','IN_PROGRESS','DONE','SKIPPED')),
		actual_avg_minutes INTEGER,
		is_recovered       INTEGER NOT NULL DEFAULT 0,
		completed_at       TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user_scheduled ON tasks(user_id, scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)`,

	`CREATE TABLE IF NOT EXISTS task_tags (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		tag     TEXT NOT NULL,
		PRIMARY KEY (task_id, tag)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_tags_tag ON task_tags(tag)`,

	`CREATE TABLE IF NOT EXISTS recovery_plans (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		target_date    TEXT NOT NULL,
		bedtime        TEXT NOT NULL,
		trigger_type   TEXT NOT NULL
		               CHECK(trigger_type IN ('INCOMPLETE_COUNT','AFTER_17','MANUAL')),
		items_json     TEXT NOT NULL,
		total_duration INTEGER NOT NULL DEFAULT 0,
		applied        INTEGER NOT NULL DEFAULT 0,
		applied_at     TEXT,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_recovery_plans_user ON recovery_plans(user_id, created_at)`,

	`ALTER TABLE recovery_plans ADD COLUMN omitted_task_ids TEXT NOT NULL DEFAULT '[]'`,

	`CREATE TABLE IF NOT EXISTS tag_stats (
		user_id            TEXT NOT NULL,
		tag                TEXT NOT NULL,
		sample_count       INTEGER NOT NULL DEFAULT 0,
		avg_actual_minutes REAL NOT NULL DEFAULT 0,
		updated_at         TEXT NOT NULL,
		PRIMARY KEY (user_id, tag)
	)`,
}
