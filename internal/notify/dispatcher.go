package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/domain/tz"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
)

// Dispatcher formats a human-readable reminder message and invokes the
// notification channel.
type Dispatcher struct {
	channel          Channel
	defaultRecipient string
	logger           *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given channel. Tasks
// without a recipient override are sent to defaultRecipient.
func NewDispatcher(channel Channel, defaultRecipient string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		channel:          channel,
		defaultRecipient: defaultRecipient,
		logger:           log.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch sends a reminder notification for the task and returns the
// channel's delivery ID, or "" on any failure. Channel errors never
// propagate past this boundary so the sweep's control flow stays
// uniform.
func (d *Dispatcher) Dispatch(ctx context.Context, task *domain.Task, reminderAt time.Time) string {
	log := logger.FromContextOrDefault(ctx, d.logger)

	recipient := task.Recipient
	if recipient == "" {
		recipient = d.defaultRecipient
	}
	if recipient == "" {
		log.Error("no recipient configured for reminder",
			slog.String("task_id", task.ID.String()))
		return ""
	}

	msg := Message{
		Recipient: recipient,
		Title:     "Todo Reminder",
		Body:      FormatBody(task, reminderAt),
		Priority:  PriorityNormal,
	}
	if dueNow(task, reminderAt) {
		msg.Priority = PriorityUrgent
	}

	deliveryID, err := d.channel.Send(ctx, msg)
	if err != nil {
		log.Warn("reminder dispatch failed",
			slog.String("error", err.Error()),
			slog.String("channel", d.channel.Name()),
			slog.String("task_id", task.ID.String()),
			slog.Time("reminder_time", reminderAt))
		return ""
	}

	log.Info("reminder dispatched",
		slog.String("channel", d.channel.Name()),
		slog.String("task_id", task.ID.String()),
		slog.String("delivery_id", deliveryID))
	return deliveryID
}

// FormatBody renders the reminder text: title, due time in the local
// display timezone with its zone label, priority, and a due-now banner
// when the reminder instant coincides with the due instant.
func FormatBody(task *domain.Task, reminderAt time.Time) string {
	local, zone := tz.ToLocal(task.DueTime)

	body := fmt.Sprintf("🔔 Reminder: %s\nDue: %s %s\nPriority: %s",
		task.Title,
		local.Format("Mon, 02 Jan 2006 15:04"),
		zone,
		task.Priority,
	)

	if dueNow(task, reminderAt) {
		body = "⚠️ DUE NOW\n" + body
	}

	return body
}

// dueNow reports whether the reminder instant equals the due instant to
// the minute.
func dueNow(task *domain.Task, reminderAt time.Time) bool {
	return reminderAt.UTC().Truncate(time.Minute).Equal(task.DueTime.UTC().Truncate(time.Minute))
}
