package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC)

	task, err := NewTask("update CV", due, PriorityHigh, "", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if !task.DueTime.Equal(due) {
		t.Errorf("Expected due time %s, got %s", due, task.DueTime)
	}

	if task.Completed {
		t.Error("Expected new task to be incomplete")
	}

	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Empty title
	_, err = NewTask("", due, PriorityHigh, "", now)
	if err != ErrEmptyTaskTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskTitle, err)
	}

	// Unknown priority
	_, err = NewTask("update CV", due, Priority("Urgent"), "", now)
	if err != ErrInvalidPriority {
		t.Errorf("Expected error %v, got %v", ErrInvalidPriority, err)
	}

	// Due time in the past
	_, err = NewTask("update CV", now.Add(-time.Hour), PriorityHigh, "", now)
	if err != ErrDueTimeNotFuture {
		t.Errorf("Expected error %v, got %v", ErrDueTimeNotFuture, err)
	}

	// Due time exactly now is also rejected
	_, err = NewTask("update CV", now, PriorityHigh, "", now)
	if err != ErrDueTimeNotFuture {
		t.Errorf("Expected error %v, got %v", ErrDueTimeNotFuture, err)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	validTask := Task{
		ID:       uuid.New(),
		Title:    "buy wine",
		DueTime:  time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC),
		Priority: PriorityLow,
	}

	if err := validTask.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidTask := validTask
	invalidTask.ID = uuid.Nil
	if err := invalidTask.Validate(); err != ErrEmptyTaskID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskID, err)
	}

	invalidTask = validTask
	invalidTask.Completed = true
	if err := invalidTask.Validate(); err != ErrCompletedAtUnset {
		t.Errorf("Expected error %v, got %v", ErrCompletedAtUnset, err)
	}
}

func TestTaskComplete(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)
	task, err := NewTask("clean garage", now.Add(8*time.Hour), PriorityMedium, "", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	completedAt := now.Add(time.Hour)
	task.Complete(completedAt)

	if !task.Completed {
		t.Error("Expected task to be completed")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(completedAt) {
		t.Errorf("Expected completed_at %s, got %v", completedAt, task.CompletedAt)
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Expected completed task to validate, got %v", err)
	}
}

func TestTaskReschedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)
	task, err := NewTask("clean garage", now.Add(8*time.Hour), PriorityMedium, "", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := task.Reschedule(now.Add(-time.Hour), now); err != ErrDueTimeNotFuture {
		t.Errorf("Expected error %v, got %v", ErrDueTimeNotFuture, err)
	}

	newDue := now.Add(24 * time.Hour)
	if err := task.Reschedule(newDue, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !task.DueTime.Equal(newDue) {
		t.Errorf("Expected due time %s, got %s", newDue, task.DueTime)
	}
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	if PriorityRank(PriorityHigh) >= PriorityRank(PriorityMedium) {
		t.Error("Expected High to rank before Medium")
	}
	if PriorityRank(PriorityMedium) >= PriorityRank(PriorityLow) {
		t.Error("Expected Medium to rank before Low")
	}
	if PriorityRank(Priority("bogus")) <= PriorityRank(PriorityLow) {
		t.Error("Expected unknown priority to rank last")
	}
}
