// Package notify formats reminder messages and pushes them through the
// configured outbound notification channel. All channel failures are
// absorbed here: the sweep engine only ever sees a delivery ID or an
// empty sentinel.
package notify

import (
	"context"
	"errors"
)

// MessagePriority is the channel-neutral priority of an outbound message.
type MessagePriority int

const (
	// PriorityNormal is the default delivery priority.
	PriorityNormal MessagePriority = 0

	// PriorityUrgent elevates delivery for reminders that coincide with
	// the task's due instant.
	PriorityUrgent MessagePriority = 1
)

// ErrChannelDisabled is returned by a channel constructed without
// credentials. The sweep keeps running; every dispatch simply fails.
var ErrChannelDisabled = errors.New("notification channel disabled: missing credentials")

// Message is one outbound notification.
type Message struct {
	Recipient string
	Title     string
	Body      string
	Priority  MessagePriority
}

// Channel is the outbound notification transport. Implementations wrap
// a single provider (Pushover, Twilio WhatsApp) and must return the
// provider's delivery receipt on success.
type Channel interface {
	// Send delivers the message and returns the channel-assigned
	// delivery ID. Any non-2xx provider response or transport error is
	// returned as an error.
	Send(ctx context.Context, msg Message) (string, error)

	// Name identifies the channel in logs.
	Name() string
}
