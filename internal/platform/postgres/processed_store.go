package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/store"
	"github.com/google/uuid"
)

// PostgresProcessedStore implements the store.ProcessedStore ledger on
// PostgreSQL. The reminder_id column carries a UNIQUE constraint, which
// makes MarkProcessed atomic: the check-then-act race between concurrent
// sweeps collapses into a constraint violation that is reported as
// "already marked" rather than a failure.
type PostgresProcessedStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProcessedStore creates a new PostgreSQL implementation of
// the ProcessedStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresProcessedStore(db store.DBTX, logger *slog.Logger) *PostgresProcessedStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProcessedStore{
		db:     db,
		logger: logger.With(slog.String("component", "processed_store")),
	}
}

// Ensure PostgresProcessedStore implements store.ProcessedStore interface
var _ store.ProcessedStore = (*PostgresProcessedStore)(nil)

// IsProcessed implements store.ProcessedStore.IsProcessed
func (s *PostgresProcessedStore) IsProcessed(ctx context.Context, reminderID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM processed_reminders WHERE reminder_id = $1)`
	if err := s.db.QueryRowContext(ctx, query, reminderID).Scan(&exists); err != nil {
		log.Error("failed to check processed mark",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminderID.String()))
		return false, MapError(err)
	}

	return exists, nil
}

// MarkProcessed implements store.ProcessedStore.MarkProcessed
// It re-checks IsProcessed before inserting; if the insert still hits
// the unique constraint (two sweeps racing), that outcome is
// MarkOutcomeAlreadyMarked, not an error.
func (s *PostgresProcessedStore) MarkProcessed(
	ctx context.Context,
	reminderID uuid.UUID,
	deliveryID string,
	at time.Time,
) (store.MarkOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	processed, err := s.IsProcessed(ctx, reminderID)
	if err != nil {
		return 0, err
	}
	if processed {
		log.Debug("reminder already marked processed",
			slog.String("reminder_id", reminderID.String()))
		return store.MarkOutcomeAlreadyMarked, nil
	}

	mark, err := domain.NewProcessedMark(reminderID, deliveryID, at)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO processed_reminders (id, reminder_id, processed_at, delivery_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err = s.db.ExecContext(ctx, query, mark.ID, mark.ReminderID, mark.ProcessedAt, mark.DeliveryID)
	if err != nil {
		if IsUniqueViolation(err) {
			// Another sweep won the race between our check and insert.
			log.Debug("processed mark insert raced, treating as already marked",
				slog.String("reminder_id", reminderID.String()))
			return store.MarkOutcomeAlreadyMarked, nil
		}
		log.Error("failed to insert processed mark",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminderID.String()))
		return 0, MapError(err)
	}

	log.Info("reminder marked processed",
		slog.String("reminder_id", reminderID.String()),
		slog.String("delivery_id", deliveryID))
	return store.MarkOutcomeMarked, nil
}

// Reset implements store.ProcessedStore.Reset
func (s *PostgresProcessedStore) Reset(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM processed_reminders`)
	if err != nil {
		log.Error("failed to reset processed marks", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.Warn("processed-reminder ledger reset", slog.Int64("removed", removed))
	return removed, nil
}
