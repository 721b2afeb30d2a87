package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/planner"
	"github.com/clemtodo/reminder-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTaskStore is an in-memory TaskStore.
type memTaskStore struct {
	tasks     map[uuid.UUID]*domain.Task
	createErr error
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (m *memTaskStore) Create(_ context.Context, task *domain.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *memTaskStore) Update(_ context.Context, task *domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *memTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTaskStore) FindIncomplete(context.Context) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range m.tasks {
		if !task.Completed {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memTaskStore) FindRecentlyCompleted(_ context.Context, limit int) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range m.tasks {
		if task.Completed && len(out) < limit {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memTaskStore) WithTx(*sql.Tx) store.TaskStore { return m }

// memReminderStore is an in-memory ReminderStore.
type memReminderStore struct {
	reminders map[uuid.UUID]*domain.Reminder
	createErr error
}

func newMemReminderStore() *memReminderStore {
	return &memReminderStore{reminders: make(map[uuid.UUID]*domain.Reminder)}
}

func (m *memReminderStore) Create(_ context.Context, reminder *domain.Reminder) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *reminder
	m.reminders[reminder.ID] = &copied
	return nil
}

func (m *memReminderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Reminder, error) {
	reminder, ok := m.reminders[id]
	if !ok {
		return nil, store.ErrReminderNotFound
	}
	copied := *reminder
	return &copied, nil
}

func (m *memReminderStore) FindByTask(_ context.Context, taskID uuid.UUID) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, reminder := range m.reminders {
		if reminder.TaskID == taskID {
			copied := *reminder
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memReminderStore) DeleteByTask(_ context.Context, taskID uuid.UUID) error {
	for id, reminder := range m.reminders {
		if reminder.TaskID == taskID {
			delete(m.reminders, id)
		}
	}
	return nil
}

func (m *memReminderStore) FindDueInWindow(context.Context, time.Time, time.Time) ([]store.DueReminder, error) {
	return nil, nil
}

func (m *memReminderStore) WithTx(*sql.Tx) store.ReminderStore { return m }

// fakeSuggester serves canned instants.
type fakeSuggester struct {
	instants []time.Time
	err      error
	calls    int
}

func (f *fakeSuggester) Suggest(context.Context, string, domain.Priority, time.Time, time.Time) ([]time.Time, error) {
	f.calls++
	return f.instants, f.err
}

func newTestService(tasks *memTaskStore, reminders *memReminderStore, suggester planner.Suggester, now time.Time) *TaskService {
	return &TaskService{
		tasks:     tasks,
		reminders: reminders,
		planner:   planner.New(suggester, nil),
		now:       func() time.Time { return now },
		runTx: func(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
			return fn(ctx, nil)
		},
		logger: slog.Default(),
	}
}

var testNow = time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)

func TestCreateSingleReminder(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	reminders := newMemReminderStore()
	suggester := &fakeSuggester{}
	svc := newTestService(tasks, reminders, suggester, testNow)

	result, err := svc.Create(context.Background(), CreateTaskParams{
		Title:          "submit tax return",
		DueTime:        time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC),
		Priority:       domain.PriorityHigh,
		SingleReminder: true,
		HoursBefore:    2,
	})
	require.NoError(t, err)

	require.Len(t, result.Reminders, 1)
	assert.True(t, result.Reminders[0].ReminderTime.Equal(
		time.Date(2024, time.June, 10, 16, 0, 0, 0, time.UTC)))
	assert.Zero(t, suggester.calls, "single mode must not consult the suggester")

	assert.Len(t, tasks.tasks, 1)
	assert.Len(t, reminders.reminders, 1)
}

func TestCreateSuggestedPlan(t *testing.T) {
	t.Parallel()

	suggested := []time.Time{
		time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 10, 16, 0, 0, 0, time.UTC),
	}
	tasks := newMemTaskStore()
	reminders := newMemReminderStore()
	svc := newTestService(tasks, reminders, &fakeSuggester{instants: suggested}, testNow)

	result, err := svc.Create(context.Background(), CreateTaskParams{
		Title:    "update CV",
		DueTime:  time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC),
		Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)

	require.Len(t, result.Reminders, 2)
	assert.Len(t, reminders.reminders, 2)
}

func TestCreateSuggesterFailureFallsBack(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	reminders := newMemReminderStore()
	svc := newTestService(tasks, reminders, &fakeSuggester{err: errors.New("model unavailable")}, testNow)

	result, err := svc.Create(context.Background(), CreateTaskParams{
		Title:    "buy wine",
		DueTime:  time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC),
		Priority: domain.PriorityLow,
	})
	require.NoError(t, err)

	// 0.75 of the 8h horizon from 10:00 is 16:00.
	require.Len(t, result.Reminders, 1)
	assert.True(t, result.Reminders[0].ReminderTime.Equal(
		time.Date(2024, time.June, 10, 16, 0, 0, 0, time.UTC)))
}

func TestCreateRejectsPastDueTime(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemTaskStore(), newMemReminderStore(), &fakeSuggester{}, testNow)

	_, err := svc.Create(context.Background(), CreateTaskParams{
		Title:    "too late",
		DueTime:  testNow.Add(-time.Hour),
		Priority: domain.PriorityMedium,
	})

	assert.ErrorIs(t, err, domain.ErrDueTimeNotFuture)
}

func TestCreateStoreFailureAbortsTransaction(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	reminders := newMemReminderStore()
	reminders.createErr = errors.New("connection refused")
	svc := newTestService(tasks, reminders, &fakeSuggester{}, testNow)

	_, err := svc.Create(context.Background(), CreateTaskParams{
		Title:          "clean garage",
		DueTime:        testNow.Add(8 * time.Hour),
		Priority:       domain.PriorityMedium,
		SingleReminder: true,
		HoursBefore:    1,
	})

	require.Error(t, err)
}

func TestListSplitsCompleted(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	reminders := newMemReminderStore()
	svc := newTestService(tasks, reminders, &fakeSuggester{}, testNow)

	open, err := svc.Create(context.Background(), CreateTaskParams{
		Title: "open task", DueTime: testNow.Add(4 * time.Hour),
		Priority: domain.PriorityMedium, SingleReminder: true, HoursBefore: 1,
	})
	require.NoError(t, err)

	done, err := svc.Create(context.Background(), CreateTaskParams{
		Title: "done task", DueTime: testNow.Add(6 * time.Hour),
		Priority: domain.PriorityLow, SingleReminder: true, HoursBefore: 1,
	})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), done.Task.ID)
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, list.Incomplete, 1)
	assert.Equal(t, open.Task.ID, list.Incomplete[0].Task.ID)
	require.Len(t, list.Incomplete[0].Reminders, 1)

	require.Len(t, list.RecentlyCompleted, 1)
	assert.Equal(t, done.Task.ID, list.RecentlyCompleted[0].Task.ID)
}

func TestCompleteIsIdempotent(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	svc := newTestService(tasks, newMemReminderStore(), &fakeSuggester{}, testNow)

	created, err := svc.Create(context.Background(), CreateTaskParams{
		Title: "water plants", DueTime: testNow.Add(2 * time.Hour),
		Priority: domain.PriorityLow, SingleReminder: true, HoursBefore: 1,
	})
	require.NoError(t, err)

	first, err := svc.Complete(context.Background(), created.Task.ID)
	require.NoError(t, err)
	require.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	second, err := svc.Complete(context.Background(), created.Task.ID)
	require.NoError(t, err)
	assert.True(t, second.CompletedAt.Equal(*first.CompletedAt))
}

func TestCompleteUnknownTask(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemTaskStore(), newMemReminderStore(), &fakeSuggester{}, testNow)

	_, err := svc.Complete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestEditDueReplansReminders(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	reminders := newMemReminderStore()
	svc := newTestService(tasks, reminders, &fakeSuggester{}, testNow)

	created, err := svc.Create(context.Background(), CreateTaskParams{
		Title: "book dentist", DueTime: testNow.Add(4 * time.Hour),
		Priority: domain.PriorityMedium, SingleReminder: true, HoursBefore: 1,
	})
	require.NoError(t, err)
	oldReminderID := created.Reminders[0].ID

	newDue := testNow.Add(24 * time.Hour)
	edited, err := svc.EditDue(context.Background(), created.Task.ID, ReplanParams{
		DueTime: newDue, SingleReminder: true, HoursBefore: 2,
	})
	require.NoError(t, err)

	assert.True(t, edited.Task.DueTime.Equal(newDue))
	require.Len(t, edited.Reminders, 1)
	assert.True(t, edited.Reminders[0].ReminderTime.Equal(newDue.Add(-2*time.Hour)))

	// The old plan is gone from the store.
	_, err = reminders.GetByID(context.Background(), oldReminderID)
	assert.ErrorIs(t, err, store.ErrReminderNotFound)
	assert.Len(t, reminders.reminders, 1)
}

func TestEditDueRejectsPastDueTime(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemTaskStore(), newMemReminderStore(), &fakeSuggester{}, testNow)

	created, err := svc.Create(context.Background(), CreateTaskParams{
		Title: "call plumber", DueTime: testNow.Add(4 * time.Hour),
		Priority: domain.PriorityMedium, SingleReminder: true, HoursBefore: 1,
	})
	require.NoError(t, err)

	_, err = svc.EditDue(context.Background(), created.Task.ID, ReplanParams{
		DueTime: testNow.Add(-time.Hour), SingleReminder: true, HoursBefore: 1,
	})
	assert.ErrorIs(t, err, domain.ErrDueTimeNotFuture)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	tasks := newMemTaskStore()
	svc := newTestService(tasks, newMemReminderStore(), &fakeSuggester{}, testNow)

	created, err := svc.Create(context.Background(), CreateTaskParams{
		Title: "return parcel", DueTime: testNow.Add(4 * time.Hour),
		Priority: domain.PriorityLow, SingleReminder: true, HoursBefore: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.Task.ID))
	assert.Empty(t, tasks.tasks)

	err = svc.Delete(context.Background(), created.Task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
