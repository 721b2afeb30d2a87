package store

import (
	"context"
	"database/sql"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Reminders and processed marks are removed
	// by the store's cascade rules.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindIncomplete retrieves all incomplete tasks ordered by due time,
	// then by priority (High before Medium before Low).
	FindIncomplete(ctx context.Context) ([]*domain.Task, error)

	// FindRecentlyCompleted retrieves completed tasks ordered by
	// completion time descending, up to limit.
	FindRecentlyCompleted(ctx context.Context, limit int) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
