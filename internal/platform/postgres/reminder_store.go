package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/store"
	"github.com/google/uuid"
)

// PostgresReminderStore implements the store.ReminderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the
// ReminderStore interface. If logger is nil, a default logger will be used.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store")),
	}
}

// Ensure PostgresReminderStore implements store.ReminderStore interface
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// WithTx implements store.ReminderStore.WithTx
func (s *PostgresReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &PostgresReminderStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReminderStore.Create
// The (task_id, reminder_time) unique constraint backs the planner's
// dedup guarantee; violations map to store.ErrDuplicate. A missing
// owning task maps to store.ErrInvalidEntity.
func (s *PostgresReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reminder.Validate(); err != nil {
		log.Warn("reminder validation failed during create",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()))
		return err
	}

	query := `
		INSERT INTO reminders (id, task_id, reminder_time, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		reminder.ID,
		reminder.TaskID,
		reminder.ReminderTime,
		reminder.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()),
			slog.String("task_id", reminder.TaskID.String()))
		return MapError(err)
	}

	log.Debug("reminder created",
		slog.String("reminder_id", reminder.ID.String()),
		slog.String("task_id", reminder.TaskID.String()),
		slog.Time("reminder_time", reminder.ReminderTime))
	return nil
}

// GetByID implements store.ReminderStore.GetByID
func (s *PostgresReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, reminder_time, created_at
		FROM reminders
		WHERE id = $1
	`

	var reminder domain.Reminder
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&reminder.ID,
		&reminder.TaskID,
		&reminder.ReminderTime,
		&reminder.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReminderNotFound
		}
		log.Error("failed to get reminder by ID",
			slog.String("error", err.Error()),
			slog.String("reminder_id", id.String()))
		return nil, MapError(err)
	}

	return &reminder, nil
}

// FindByTask implements store.ReminderStore.FindByTask
func (s *PostgresReminderStore) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, reminder_time, created_at
		FROM reminders
		WHERE task_id = $1
		ORDER BY reminder_time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query reminders by task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	reminders := []*domain.Reminder{}
	for rows.Next() {
		var reminder domain.Reminder
		err := rows.Scan(
			&reminder.ID,
			&reminder.TaskID,
			&reminder.ReminderTime,
			&reminder.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan reminder row", slog.String("error", err.Error()))
			return nil, err
		}
		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return reminders, nil
}

// DeleteByTask implements store.ReminderStore.DeleteByTask
// Deleting zero reminders is not an error; a task may have none left.
func (s *PostgresReminderStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE task_id = $1`, taskID)
	if err != nil {
		log.Error("failed to delete reminders by task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	return nil
}

// FindDueInWindow implements store.ReminderStore.FindDueInWindow
// Reminders of completed tasks are excluded at the query level so the
// sweep never sees them.
func (s *PostgresReminderStore) FindDueInWindow(ctx context.Context, from, to time.Time) ([]store.DueReminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT r.id, r.task_id, r.reminder_time, r.created_at,
		       t.id, t.title, t.due_time, t.priority, t.completed, t.completed_at, t.recipient, t.created_at, t.updated_at
		FROM reminders r
		JOIN tasks t ON t.id = r.task_id
		WHERE r.reminder_time >= $1
		  AND r.reminder_time < $2
		  AND t.completed = FALSE
		ORDER BY r.reminder_time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		log.Error("failed to query due reminders",
			slog.String("error", err.Error()),
			slog.Time("window_from", from),
			slog.Time("window_to", to))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	due := []store.DueReminder{}
	for rows.Next() {
		var item store.DueReminder
		var priority string
		var recipient sql.NullString

		err := rows.Scan(
			&item.Reminder.ID,
			&item.Reminder.TaskID,
			&item.Reminder.ReminderTime,
			&item.Reminder.CreatedAt,
			&item.Task.ID,
			&item.Task.Title,
			&item.Task.DueTime,
			&priority,
			&item.Task.Completed,
			&item.Task.CompletedAt,
			&recipient,
			&item.Task.CreatedAt,
			&item.Task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan due reminder row", slog.String("error", err.Error()))
			return nil, err
		}

		item.Task.Priority = domain.Priority(priority)
		if recipient.Valid {
			item.Task.Recipient = recipient.String
		}
		due = append(due, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("found due reminders in window",
		slog.Time("window_from", from),
		slog.Time("window_to", to),
		slog.Int("count", len(due)))
	return due, nil
}
