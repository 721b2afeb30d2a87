package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/store"
)

// PostgresWatermarkStore implements store.WatermarkStore on a single
// key-value table. The sweep's watermark is diagnostic only, so writes
// are simple upserts with no history.
type PostgresWatermarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWatermarkStore creates a new PostgreSQL implementation of
// the WatermarkStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresWatermarkStore(db store.DBTX, logger *slog.Logger) *PostgresWatermarkStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWatermarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "watermark_store")),
	}
}

// Ensure PostgresWatermarkStore implements store.WatermarkStore interface
var _ store.WatermarkStore = (*PostgresWatermarkStore)(nil)

// Get implements store.WatermarkStore.Get
func (s *PostgresWatermarkStore) Get(ctx context.Context, key string) (time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var value time.Time
	query := `SELECT value FROM sweep_state WHERE key = $1`
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, store.ErrWatermarkNotFound
		}
		log.Error("failed to get watermark",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return time.Time{}, MapError(err)
	}

	return value.UTC(), nil
}

// Set implements store.WatermarkStore.Set
// Creates the record lazily on first write.
func (s *PostgresWatermarkStore) Set(ctx context.Context, key string, value time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO sweep_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value.UTC()); err != nil {
		log.Error("failed to set watermark",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return MapError(err)
	}

	log.Debug("watermark advanced",
		slog.String("key", key),
		slog.Time("value", value))
	return nil
}
