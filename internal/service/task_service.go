// Package service contains the task application service: the
// transactional glue between the HTTP handlers, the reminder planner,
// and the stores.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/planner"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/store"
	"github.com/google/uuid"
)

// CompletedListLimit is how many recently completed tasks the list
// operation returns alongside the incomplete ones.
const CompletedListLimit = 10

// CreateTaskParams carries the client input for task creation.
type CreateTaskParams struct {
	Title     string
	DueTime   time.Time
	Priority  domain.Priority
	Recipient string

	// SingleReminder selects the deterministic single-reminder plan at
	// DueTime minus HoursBefore instead of the suggested plan.
	SingleReminder bool
	HoursBefore    float64
}

// ReplanParams carries the client input for a due-date edit. The plan
// mode rules are the same as at creation.
type ReplanParams struct {
	DueTime        time.Time
	SingleReminder bool
	HoursBefore    float64
}

// TaskWithReminders pairs a task with its reminder plan for API
// responses.
type TaskWithReminders struct {
	Task      *domain.Task       `json:"task"`
	Reminders []*domain.Reminder `json:"reminders"`
}

// TaskList is the response shape of the list operation.
type TaskList struct {
	Incomplete        []TaskWithReminders `json:"incomplete"`
	RecentlyCompleted []TaskWithReminders `json:"recently_completed"`
}

// TaskService implements the task lifecycle operations. Mutations that
// touch both the task and its reminder plan run in one transaction.
type TaskService struct {
	db        *sql.DB
	tasks     store.TaskStore
	reminders store.ReminderStore
	planner   *planner.Planner
	now       func() time.Time
	runTx     func(ctx context.Context, db *sql.DB, fn store.TxFn) error
	logger    *slog.Logger
}

// NewTaskService creates a TaskService with the given dependencies.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	reminders store.ReminderStore,
	p *planner.Planner,
	log *slog.Logger,
) *TaskService {
	if db == nil {
		panic("database cannot be nil")
	}
	if tasks == nil {
		panic("task store cannot be nil")
	}
	if reminders == nil {
		panic("reminder store cannot be nil")
	}
	if p == nil {
		panic("planner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskService{
		db:        db,
		tasks:     tasks,
		reminders: reminders,
		planner:   p,
		now:       time.Now,
		runTx:     store.RunInTransaction,
		logger:    log.With(slog.String("component", "task_service")),
	}
}

// WithClock overrides the service clock for tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Create validates the input, plans the reminders, and persists the
// task together with its plan in a single transaction. The suggestion
// call happens before the transaction opens so a slow model never holds
// a database transaction.
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (*TaskWithReminders, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	task, err := domain.NewTask(params.Title, params.DueTime, params.Priority, params.Recipient, now)
	if err != nil {
		return nil, err
	}

	instants := s.plan(ctx, task, now, params.SingleReminder, params.HoursBefore)

	reminders := make([]*domain.Reminder, 0, len(instants))
	for _, instant := range instants {
		reminder, err := domain.NewReminder(task.ID, instant)
		if err != nil {
			return nil, fmt.Errorf("failed to build reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
			return err
		}
		reminderTx := s.reminders.WithTx(tx)
		for _, reminder := range reminders {
			if err := reminderTx.Create(ctx, reminder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("priority", string(task.Priority)),
		slog.Int("reminders", len(reminders)))

	return &TaskWithReminders{Task: task, Reminders: reminders}, nil
}

// List returns all incomplete tasks ordered by due time then priority,
// plus the most recently completed ones, each with its reminders
// attached.
func (s *TaskService) List(ctx context.Context) (*TaskList, error) {
	incomplete, err := s.tasks.FindIncomplete(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete tasks: %w", err)
	}

	completed, err := s.tasks.FindRecentlyCompleted(ctx, CompletedListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}

	list := &TaskList{
		Incomplete:        make([]TaskWithReminders, 0, len(incomplete)),
		RecentlyCompleted: make([]TaskWithReminders, 0, len(completed)),
	}

	for _, task := range incomplete {
		withReminders, err := s.attachReminders(ctx, task)
		if err != nil {
			return nil, err
		}
		list.Incomplete = append(list.Incomplete, withReminders)
	}
	for _, task := range completed {
		withReminders, err := s.attachReminders(ctx, task)
		if err != nil {
			return nil, err
		}
		list.RecentlyCompleted = append(list.RecentlyCompleted, withReminders)
	}

	return list, nil
}

// Complete marks the task as done at the current instant. Completing an
// already-completed task is a no-op returning the task unchanged.
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Completed {
		return task, nil
	}

	task.Complete(s.now())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task completed", slog.String("task_id", task.ID.String()))
	return task, nil
}

// EditDue moves the task's due time and rebuilds its reminder plan:
// the existing reminders are dropped and replaced under the same plan
// mode rules as creation, all in one transaction.
func (s *TaskService) EditDue(ctx context.Context, id uuid.UUID, params ReplanParams) (*TaskWithReminders, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := task.Reschedule(params.DueTime, now); err != nil {
		return nil, err
	}

	instants := s.plan(ctx, task, now, params.SingleReminder, params.HoursBefore)

	reminders := make([]*domain.Reminder, 0, len(instants))
	for _, instant := range instants {
		reminder, err := domain.NewReminder(task.ID, instant)
		if err != nil {
			return nil, fmt.Errorf("failed to build reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).Update(ctx, task); err != nil {
			return err
		}
		reminderTx := s.reminders.WithTx(tx)
		if err := reminderTx.DeleteByTask(ctx, task.ID); err != nil {
			return err
		}
		for _, reminder := range reminders {
			if err := reminderTx.Create(ctx, reminder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task due time edited",
		slog.String("task_id", task.ID.String()),
		slog.Time("due_time", task.DueTime),
		slog.Int("reminders", len(reminders)))

	return &TaskWithReminders{Task: task, Reminders: reminders}, nil
}

// Delete removes the task. Its reminders and processed marks go with it
// through the store's cascade rules.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// plan selects the plan mode and returns the reminder instants.
func (s *TaskService) plan(ctx context.Context, task *domain.Task, now time.Time, single bool, hoursBefore float64) []time.Time {
	if single {
		lead := time.Duration(hoursBefore * float64(time.Hour))
		return s.planner.PlanSingle(task, lead)
	}
	return s.planner.PlanSuggested(ctx, task, now)
}

// attachReminders loads the reminder plan for one task.
func (s *TaskService) attachReminders(ctx context.Context, task *domain.Task) (TaskWithReminders, error) {
	reminders, err := s.reminders.FindByTask(ctx, task.ID)
	if err != nil {
		return TaskWithReminders{}, fmt.Errorf("failed to load reminders for task %s: %w", task.ID, err)
	}
	return TaskWithReminders{Task: task, Reminders: reminders}, nil
}
