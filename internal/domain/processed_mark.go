package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ProcessedMark
var (
	ErrEmptyMarkID         = errors.New("processed mark ID cannot be empty")
	ErrEmptyMarkReminderID = errors.New("processed mark reminder ID cannot be empty")
	ErrZeroProcessedAt     = errors.New("processed mark time cannot be zero")
)

// ProcessedMark records that a reminder has been dispatched. At most one
// mark exists per reminder; its presence is the sole idempotency signal
// the sweep engine consults. Marks are never updated, only created after
// a confirmed dispatch or removed by an administrative reset (or by the
// owning reminder's cascading deletion).
type ProcessedMark struct {
	ID          uuid.UUID `json:"id"`
	ReminderID  uuid.UUID `json:"reminder_id"`
	ProcessedAt time.Time `json:"processed_at"`
	// DeliveryID is the opaque receipt returned by the notification
	// channel, kept for audit only.
	DeliveryID string `json:"delivery_id,omitempty"`
}

// NewProcessedMark creates a mark for the given reminder.
// Returns an error if validation fails.
func NewProcessedMark(reminderID uuid.UUID, deliveryID string, processedAt time.Time) (*ProcessedMark, error) {
	mark := &ProcessedMark{
		ID:          uuid.New(),
		ReminderID:  reminderID,
		ProcessedAt: processedAt.UTC(),
		DeliveryID:  deliveryID,
	}

	if err := mark.Validate(); err != nil {
		return nil, err
	}

	return mark, nil
}

// Validate checks if the ProcessedMark has valid data.
func (m *ProcessedMark) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMarkID
	}

	if m.ReminderID == uuid.Nil {
		return ErrEmptyMarkReminderID
	}

	if m.ProcessedAt.IsZero() {
		return ErrZeroProcessedAt
	}

	return nil
}
