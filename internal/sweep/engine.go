// Package sweep implements the periodic reminder sweep. Each invocation
// computes a catch-up window around the current local hour, fetches the
// reminders falling inside it, and dispatches the ones the processed
// ledger has not seen. The engine is stateless between invocations;
// the ledger and the watermark carry all progress.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/domain/tz"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/store"
)

// Dispatcher sends one reminder notification and reports the delivery ID,
// or "" when the send failed. Implemented by notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, task *domain.Task, reminderAt time.Time) string
}

// Result summarizes one sweep invocation.
type Result struct {
	// Found is the number of reminders inside the window, before any
	// per-reminder decision.
	Found int `json:"found"`

	// Sent is the number dispatched and marked this invocation.
	Sent int `json:"sent"`

	// AlreadyProcessed is the number skipped because the ledger already
	// held a mark for them.
	AlreadyProcessed int `json:"already_processed"`

	// Failed is the number whose dispatch failed; they stay unmarked and
	// are retried by a later sweep.
	Failed int `json:"failed"`
}

// ResetResult summarizes an administrative ledger reset.
type ResetResult struct {
	// Cleared is the number of processed marks deleted.
	Cleared int64 `json:"cleared"`

	// Watermark is the instant the sweep watermark was rewound to.
	Watermark time.Time `json:"watermark"`
}

// Engine runs the reminder sweep against the stores and dispatcher it
// was constructed with.
type Engine struct {
	reminders  store.ReminderStore
	processed  store.ProcessedStore
	watermarks store.WatermarkStore
	dispatcher Dispatcher
	cfg        config.SweepConfig
	now        func() time.Time
	logger     *slog.Logger
}

// NewEngine creates a sweep Engine. The clock defaults to time.Now and
// is injectable for tests.
func NewEngine(
	reminders store.ReminderStore,
	processed store.ProcessedStore,
	watermarks store.WatermarkStore,
	dispatcher Dispatcher,
	cfg config.SweepConfig,
	log *slog.Logger,
) *Engine {
	if reminders == nil {
		panic("reminder store cannot be nil")
	}
	if processed == nil {
		panic("processed store cannot be nil")
	}
	if watermarks == nil {
		panic("watermark store cannot be nil")
	}
	if dispatcher == nil {
		panic("dispatcher cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		reminders:  reminders,
		processed:  processed,
		watermarks: watermarks,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		logger:     log.With(slog.String("component", "sweep_engine")),
	}
}

// WithClock overrides the engine's clock. Tests pin the sweep to a
// fixed instant with this.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Window computes the sweep window for the given instant: the current
// local hour floor minus the lookback through the hour floor plus the
// bucket, mapped back to UTC. The floor is taken in local display time
// so the window tracks wall-clock hours across the daylight switch.
func (e *Engine) Window(now time.Time) (time.Time, time.Time) {
	local, _ := tz.ToLocal(now.UTC())
	floor := local.Truncate(time.Hour)

	from := floor.Add(-time.Duration(e.cfg.LookbackHours) * time.Hour)
	to := floor.Add(time.Duration(e.cfg.BucketMinutes) * time.Minute)

	return tz.ToUTC(from), tz.ToUTC(to)
}

// Run executes one sweep. Only a failure of the window query itself is
// a hard error; per-reminder store failures are logged and that
// reminder is skipped until the next sweep. The watermark is advanced
// unconditionally, whatever the per-reminder outcomes were.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	now := e.now().UTC()
	from, to := e.Window(now)

	log.Debug("sweep window computed",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.Time("now", now))

	due, err := e.reminders.FindDueInWindow(ctx, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("failed to query reminder window: %w", err)
	}

	var result Result
	result.Found = len(due)

	for i := range due {
		e.process(ctx, log, &due[i], now, to, &result)
	}

	if err := e.watermarks.Set(ctx, store.WatermarkKeyLastProcessed, now); err != nil {
		log.Error("failed to advance sweep watermark",
			slog.String("error", err.Error()))
	}

	log.Info("sweep complete",
		slog.Int("found", result.Found),
		slog.Int("sent", result.Sent),
		slog.Int("already_processed", result.AlreadyProcessed),
		slog.Int("failed", result.Failed))

	return result, nil
}

// process applies the per-reminder decision and updates the counters.
func (e *Engine) process(
	ctx context.Context,
	log *slog.Logger,
	dr *store.DueReminder,
	now, bucketEnd time.Time,
	result *Result,
) {
	reminder := dr.Reminder
	task := dr.Task

	// The window query already excludes completed tasks; a task
	// completed between the query and this point is skipped the same
	// way, without a counter.
	if task.Completed {
		return
	}

	processed, err := e.processed.IsProcessed(ctx, reminder.ID)
	if err != nil {
		log.Warn("ledger check failed, skipping reminder",
			slog.String("reminder_id", reminder.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if processed {
		result.AlreadyProcessed++
		return
	}

	// Reminders later in the current hour bucket are dispatched early;
	// anything further in the future waits for its own sweep.
	if reminder.ReminderTime.After(now) && !reminder.ReminderTime.Before(bucketEnd) {
		return
	}

	deliveryID := e.dispatcher.Dispatch(ctx, &task, reminder.ReminderTime)
	if deliveryID == "" {
		result.Failed++
		return
	}

	outcome, err := e.processed.MarkProcessed(ctx, reminder.ID, deliveryID, now)
	if err != nil {
		// The notification went out but the mark did not stick. Leaving
		// the reminder unmarked means a later sweep may send it again;
		// duplicate delivery is preferred over silent loss.
		log.Error("failed to record processed mark after dispatch",
			slog.String("reminder_id", reminder.ID.String()),
			slog.String("delivery_id", deliveryID),
			slog.String("error", err.Error()))
		result.Sent++
		return
	}

	if outcome == store.MarkOutcomeAlreadyMarked {
		// A concurrent sweep got there first. The notification was
		// duplicated but the ledger stays consistent.
		log.Warn("reminder marked by concurrent sweep",
			slog.String("reminder_id", reminder.ID.String()))
		result.AlreadyProcessed++
		return
	}

	result.Sent++
}

// Reset clears the processed ledger and rewinds the watermark by the
// configured number of hours. The next sweep re-evaluates every
// reminder still inside its window.
func (e *Engine) Reset(ctx context.Context) (ResetResult, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	cleared, err := e.processed.Reset(ctx)
	if err != nil {
		return ResetResult{}, fmt.Errorf("failed to reset processed ledger: %w", err)
	}

	watermark := e.now().UTC().Add(-time.Duration(e.cfg.ResetRewindHours) * time.Hour)
	if err := e.watermarks.Set(ctx, store.WatermarkKeyLastProcessed, watermark); err != nil {
		return ResetResult{}, fmt.Errorf("failed to rewind sweep watermark: %w", err)
	}

	log.Info("processed ledger reset",
		slog.Int64("cleared", cleared),
		slog.Time("watermark", watermark))

	return ResetResult{Cleared: cleared, Watermark: watermark}, nil
}
