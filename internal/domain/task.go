package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	MinExpectedMinutes = 1
	MaxExpectedMinutes = 480
	// MaxActualMinutes bounds completion feedback to a single day.
	MaxActualMinutes = 1440
)

var ErrTaskAlreadyCompleted = errors.New("task is already completed")

var validate = validator.New(validator.WithRequiredStructEnabled())

type Task struct {
	ID              string `validate:"required"`
	UserID          string `validate:"required"`
	Title           string `validate:"required,max=200"`
	Description     string
	ScheduledAt     time.Time `validate:"required"`
	ExpectedMinutes int       `validate:"min=1,max=480"`
	Priority        int       `validate:"min=1,max=5"`
	Status          TaskStatus
	Tags            []string

	// Learned
	ActualAvgMinutes *int
	IsRecovered      bool

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks field ranges and the CompletedAt/Status invariant.
func (t *Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if !ValidTaskStatuses[t.Status] {
		return fmt.Errorf("invalid task: unknown status %q", t.Status)
	}
	if (t.Status == TaskDone) != (t.CompletedAt != nil) {
		return fmt.Errorf("invalid task: completedAt must be set exactly when status is %s", TaskDone)
	}
	return nil
}

// IsIncomplete reports whether the task is a recovery candidate.
// IN_PROGRESS tasks are being worked on and are left where they are.
func (t *Task) IsIncomplete() bool {
	return t.Status == TaskPending || t.Status == TaskSkipped
}

// MarkDone transitions the task to DONE. Completing twice is rejected
// without touching the task.
func (t *Task) MarkDone(now time.Time) error {
	if t.Status == TaskDone {
		return ErrTaskAlreadyCompleted
	}
	t.Status = TaskDone
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// Reschedule moves the task to a recovery slot and reactivates it.
func (t *Task) Reschedule(at time.Time, now time.Time) {
	t.ScheduledAt = at
	if t.Status == TaskSkipped {
		t.Status = TaskPending
	}
	t.IsRecovered = true
	t.UpdatedAt = now
}

// MarkSkipped flags a pending task that a recovery plan left out.
// Returns false when the task was not pending.
func (t *Task) MarkSkipped(now time.Time) bool {
	if t.Status != TaskPending {
		return false
	}
	t.Status = TaskSkipped
	t.UpdatedAt = now
	return true
}

// NormalizeTags trims, lower-cases, de-duplicates and sorts tag names.
// Control characters are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.Map(dropControl, tag)
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func dropControl(r rune) rune {
	if unicode.IsControl(r) {
		return -1
	}
	return r
}
