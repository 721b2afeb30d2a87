package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority represents the urgency bucket assigned to a task.
type Priority string

// Possible task priority values, ordered from most to least urgent.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrZeroTaskDueTime   = errors.New("task due time cannot be zero")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrDueTimeNotFuture  = errors.New("task due time must be in the future")
	ErrCompletedAtUnset  = errors.New("completed task must have a completion time")
)

// Task represents a single to-do item with a due time. Reminders are
// scheduled against the due time and dispatched by the sweep engine.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	DueTime     time.Time  `json:"due_time"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Recipient overrides the configured default notification address
	// for this task when set.
	Recipient string    `json:"recipient,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a new Task with a generated ID and creation timestamps.
// The due time must be strictly in the future relative to now.
// Returns an error if validation fails.
func NewTask(title string, dueTime time.Time, priority Priority, recipient string, now time.Time) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Title:     title,
		DueTime:   dueTime.UTC(),
		Priority:  priority,
		Recipient: recipient,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if !task.DueTime.After(now.UTC()) {
		return nil, ErrDueTimeNotFuture
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.DueTime.IsZero() {
		return ErrZeroTaskDueTime
	}

	if !isValidPriority(t.Priority) {
		return ErrInvalidPriority
	}

	if t.Completed && t.CompletedAt == nil {
		return ErrCompletedAtUnset
	}

	return nil
}

// Complete marks the task as done at the given instant and updates the
// UpdatedAt timestamp.
func (t *Task) Complete(at time.Time) {
	at = at.UTC()
	t.Completed = true
	t.CompletedAt = &at
	t.UpdatedAt = at
}

// Reschedule replaces the task's due time. The new due time must be in
// the future; the caller is responsible for replanning reminders.
func (t *Task) Reschedule(dueTime, now time.Time) error {
	if !dueTime.UTC().After(now.UTC()) {
		return ErrDueTimeNotFuture
	}

	t.DueTime = dueTime.UTC()
	t.UpdatedAt = now.UTC()
	return nil
}

// PriorityRank returns the sort rank of a priority, High first.
// Unknown priorities sort last.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// isValidPriority checks if the given priority is a valid Priority.
func isValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
