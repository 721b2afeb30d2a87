package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/google/uuid"
)

// DueReminder pairs a reminder with its owning task, as returned by the
// sweep window query.
type DueReminder struct {
	Reminder domain.Reminder
	Task     domain.Task
}

// ReminderStore defines the interface for reminder data persistence.
type ReminderStore interface {
	// Create saves a new reminder to the store.
	// Returns ErrDuplicate if the task already has a reminder at the
	// same instant, and ErrInvalidEntity if the owning task is missing.
	Create(ctx context.Context, reminder *domain.Reminder) error

	// GetByID retrieves a reminder by its unique ID.
	// Returns ErrReminderNotFound if the reminder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// FindByTask retrieves all reminders belonging to the given task,
	// ordered by reminder time ascending.
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Reminder, error)

	// DeleteByTask removes all reminders belonging to the given task.
	// Used when a task's due date is edited and the plan is rebuilt.
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error

	// FindDueInWindow retrieves reminders whose instant falls in
	// [from, to), joined with their owning task, excluding reminders of
	// completed tasks. Ordered by reminder time ascending.
	FindDueInWindow(ctx context.Context, from, to time.Time) ([]DueReminder, error)

	// WithTx returns a new ReminderStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReminderStore
}
