// Package twilio implements the notify.Channel interface against the
// Twilio Messages API, delivering reminders over WhatsApp.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/notify"
)

// DefaultBaseURL is the production Twilio API endpoint.
const DefaultBaseURL = "https://api.twilio.com"

// Channel sends WhatsApp notifications through Twilio. A Channel
// constructed without credentials is disabled: every Send fails with
// notify.ErrChannelDisabled but the service keeps running.
type Channel struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
	logger     *slog.Logger
}

// New creates a Twilio WhatsApp channel from configuration.
func New(cfg config.TwilioConfig, timeout time.Duration, log *slog.Logger) *Channel {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ch := &Channel{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    DefaultBaseURL,
		client:     &http.Client{Timeout: timeout},
		logger:     log.With(slog.String("component", "twilio_channel")),
	}

	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		ch.logger.Warn("twilio credentials missing, channel disabled")
	}

	return ch
}

// Ensure Channel implements notify.Channel
var _ notify.Channel = (*Channel)(nil)

// Name implements notify.Channel.Name
func (c *Channel) Name() string { return "twilio_whatsapp" }

// WithBaseURL overrides the API endpoint. Tests point this at a local
// httptest server.
func (c *Channel) WithBaseURL(base string) *Channel {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

func (c *Channel) disabled() bool {
	return c.accountSID == "" || c.authToken == "" || c.fromNumber == ""
}

// apiResponse is the subset of the Twilio message resource we need.
type apiResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
}

// Send implements notify.Channel.Send
// The message recipient is a phone number; it is normalized into the
// whatsapp:+E.164 form Twilio expects.
func (c *Channel) Send(ctx context.Context, msg notify.Message) (string, error) {
	if c.disabled() {
		return "", notify.ErrChannelDisabled
	}

	form := url.Values{}
	form.Set("From", FormatWhatsAppNumber(c.fromNumber))
	form.Set("To", FormatWhatsAppNumber(msg.Recipient))
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio rejected message: http %d: %s", resp.StatusCode, body.Message)
	}

	return body.SID, nil
}

// FormatWhatsAppNumber normalizes a phone number into the
// "whatsapp:+<E.164>" form. Already-prefixed numbers pass through.
func FormatWhatsAppNumber(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return "whatsapp:" + number
}
