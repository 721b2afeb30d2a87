// Package planner decides how many reminders a task gets and when they
// fire. It owns the sanitization of externally suggested instants and
// the deterministic fallback used when the suggestion capability is
// unavailable or returns garbage.
package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
)

// FallbackFraction places the deterministic fallback reminder at this
// fraction of the way from creation to the due time.
const FallbackFraction = 0.75

// Suggester is the external reminder-suggestion capability. It is
// treated as unreliable: timeouts, malformed output, and hallucinated
// counts all surface as errors or are filtered out during sanitization.
type Suggester interface {
	// Suggest returns proposed reminder instants for the task,
	// nominally 1 to 4 of them, inside local reasonable hours and
	// scaled to task complexity.
	Suggest(ctx context.Context, title string, priority domain.Priority, due, now time.Time) ([]time.Time, error)
}

// Planner produces the set of reminder instants for a task.
type Planner struct {
	suggester Suggester
	logger    *slog.Logger
}

// New creates a Planner. A nil suggester is allowed: suggested-mode
// plans then always use the deterministic fallback.
func New(suggester Suggester, log *slog.Logger) *Planner {
	if log == nil {
		log = slog.Default()
	}
	return &Planner{
		suggester: suggester,
		logger:    log.With(slog.String("component", "planner")),
	}
}

// PlanSingle emits exactly one instant at due − lead. No suggestion call
// is made. The caller boundary guarantees due > createdAt, so the
// planner never runs with a non-positive horizon.
func (p *Planner) PlanSingle(task *domain.Task, lead time.Duration) []time.Time {
	return []time.Time{task.DueTime.Add(-lead).UTC()}
}

// PlanSuggested asks the suggester for instants and sanitizes whatever
// comes back: duplicates (to the second) are dropped preserving
// first-seen order, as are instants outside (createdAt, due]. If the
// suggester fails or nothing survives, the plan falls back to the single
// deterministic instant at createdAt + 0.75 × (due − createdAt).
func (p *Planner) PlanSuggested(ctx context.Context, task *domain.Task, createdAt time.Time) []time.Time {
	log := logger.FromContextOrDefault(ctx, p.logger)
	createdAt = createdAt.UTC()

	if p.suggester == nil {
		log.Debug("no suggester configured, using fallback reminder",
			slog.String("task_id", task.ID.String()))
		return []time.Time{Fallback(createdAt, task.DueTime)}
	}

	suggested, err := p.suggester.Suggest(ctx, task.Title, task.Priority, task.DueTime, createdAt)
	if err != nil {
		log.Warn("reminder suggestion failed, using fallback reminder",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return []time.Time{Fallback(createdAt, task.DueTime)}
	}

	accepted := Sanitize(suggested, createdAt, task.DueTime)
	if len(accepted) == 0 {
		log.Warn("no usable suggested instants, using fallback reminder",
			slog.String("task_id", task.ID.String()),
			slog.Int("suggested", len(suggested)))
		return []time.Time{Fallback(createdAt, task.DueTime)}
	}

	log.Debug("reminder plan accepted",
		slog.String("task_id", task.ID.String()),
		slog.Int("suggested", len(suggested)),
		slog.Int("accepted", len(accepted)))
	return accepted
}

// Sanitize filters a list of proposed instants: duplicates equal to the
// second are dropped (first occurrence wins, order preserved), and
// instants outside the (createdAt, due] horizon are discarded.
func Sanitize(proposed []time.Time, createdAt, due time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(proposed))
	accepted := make([]time.Time, 0, len(proposed))

	for _, t := range proposed {
		t = t.UTC().Truncate(time.Second)
		if !t.After(createdAt) || t.After(due) {
			continue
		}
		if _, dup := seen[t.Unix()]; dup {
			continue
		}
		seen[t.Unix()] = struct{}{}
		accepted = append(accepted, t)
	}

	return accepted
}

// Fallback computes the deterministic single reminder instant at
// createdAt + FallbackFraction × (due − createdAt).
func Fallback(createdAt, due time.Time) time.Time {
	horizon := due.Sub(createdAt)
	return createdAt.Add(time.Duration(FallbackFraction * float64(horizon))).UTC()
}
