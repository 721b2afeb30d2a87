package store

import (
	"context"
	"time"
)

// WatermarkKeyLastProcessed is the single named watermark record tracked
// by the sweep engine.
const WatermarkKeyLastProcessed = "last_processed_time"

// WatermarkStore persists the sweep progress watermark. The watermark is
// a coarse diagnostic safety net; the processed-reminder ledger remains
// the authoritative idempotency mechanism.
type WatermarkStore interface {
	// Get retrieves the watermark instant for the given key.
	// Returns ErrWatermarkNotFound if it has never been written.
	Get(ctx context.Context, key string) (time.Time, error)

	// Set upserts the watermark instant for the given key. The first
	// sweep creates the record lazily.
	Set(ctx context.Context, key string, value time.Time) error
}
