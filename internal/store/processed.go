package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MarkOutcome describes the result of a MarkProcessed call.
type MarkOutcome int

const (
	// MarkOutcomeMarked means a new processed mark was created.
	MarkOutcomeMarked MarkOutcome = iota

	// MarkOutcomeAlreadyMarked means a mark already existed for the
	// reminder, either found by the pre-check or surfaced as a unique
	// constraint violation when two sweeps race on the same reminder.
	MarkOutcomeAlreadyMarked
)

// ProcessedStore is the idempotency ledger: it records which reminders
// have already been dispatched. The presence of a mark is the sole
// signal the sweep engine uses to decide "already handled".
type ProcessedStore interface {
	// IsProcessed reports whether a processed mark exists for the reminder.
	IsProcessed(ctx context.Context, reminderID uuid.UUID) (bool, error)

	// MarkProcessed records that the reminder was dispatched. It is safe
	// under concurrent or repeated invocation: a pre-existing mark, or a
	// unique-constraint violation raced in between, yields
	// MarkOutcomeAlreadyMarked without creating a duplicate row. A
	// transient store failure returns an error; the caller must not
	// treat that as success.
	MarkProcessed(ctx context.Context, reminderID uuid.UUID, deliveryID string, at time.Time) (MarkOutcome, error)

	// Reset deletes all processed marks and returns the number removed.
	// Only the administrative reset endpoint calls this.
	Reset(ctx context.Context) (int64, error)
}
