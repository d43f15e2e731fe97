package domain

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskSkipped    TaskStatus = "SKIPPED"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskPending: true, TaskInProgress: true, TaskDone: true, TaskSkipped: true,
}

type TriggerType string

const (
	TriggerIncompleteCount TriggerType = "INCOMPLETE_COUNT"
	TriggerAfter17         TriggerType = "AFTER_17"
	TriggerManual          TriggerType = "MANUAL"
)

type ItemType string

const (
	ItemTask  ItemType = "TASK"
	ItemBreak ItemType = "BREAK"
)

type PackingPolicy string

const (
	// PolicySkipOversized skips a task that does not fit and keeps trying
	// the remaining candidates.
	PolicySkipOversized PackingPolicy = "skip_oversized"
	// PolicyStopAtFirstOverflow ends packing at the first task that does not fit.
	PolicyStopAtFirstOverflow PackingPolicy = "stop_at_first_overflow"
)

// ParsePackingPolicy maps a config string to a policy, defaulting to
// PolicySkipOversized for empty input.
func ParsePackingPolicy(s string) (PackingPolicy, bool) {
	switch PackingPolicy(s) {
	case "", PolicySkipOversized:
		return PolicySkipOversized, true
	case PolicyStopAtFirstOverflow:
		return PolicyStopAtFirstOverflow, true
	}
	return "", false
}
