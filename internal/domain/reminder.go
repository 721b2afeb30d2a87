package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Reminder
var (
	ErrEmptyReminderID     = errors.New("reminder ID cannot be empty")
	ErrEmptyReminderTaskID = errors.New("reminder task ID cannot be empty")
	ErrZeroReminderTime    = errors.New("reminder time cannot be zero")
)

// Reminder is a single scheduled notification instant belonging to
// exactly one task. Reminders are immutable once created and are removed
// only when their owning task is deleted.
type Reminder struct {
	ID           uuid.UUID `json:"id"`
	TaskID       uuid.UUID `json:"task_id"`
	ReminderTime time.Time `json:"reminder_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReminder creates a new Reminder for the given task at the given
// instant. Returns an error if validation fails.
func NewReminder(taskID uuid.UUID, reminderTime time.Time) (*Reminder, error) {
	reminder := &Reminder{
		ID:           uuid.New(),
		TaskID:       taskID,
		ReminderTime: reminderTime.UTC(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	return reminder, nil
}

// Validate checks if the Reminder has valid data.
func (r *Reminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyReminderID
	}

	if r.TaskID == uuid.Nil {
		return ErrEmptyReminderTaskID
	}

	if r.ReminderTime.IsZero() {
		return ErrZeroReminderTime
	}

	return nil
}
