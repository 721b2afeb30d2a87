// Package pushover implements the notify.Channel interface against the
// Pushover messages API.
package pushover

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/notify"
)

// DefaultBaseURL is the production Pushover API endpoint.
const DefaultBaseURL = "https://api.pushover.net"

// Channel sends notifications through Pushover. A Channel constructed
// without credentials is disabled: every Send fails with
// notify.ErrChannelDisabled but the service keeps running.
type Channel struct {
	apiToken string
	baseURL  string
	client   *http.Client
	logger   *slog.Logger
}

// New creates a Pushover channel from configuration. timeout bounds each
// send call at the HTTP client level.
func New(cfg config.PushoverConfig, timeout time.Duration, log *slog.Logger) *Channel {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ch := &Channel{
		apiToken: cfg.APIToken,
		baseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: timeout},
		logger:   log.With(slog.String("component", "pushover_channel")),
	}

	if cfg.APIToken == "" {
		ch.logger.Warn("pushover credentials missing, channel disabled")
	}

	return ch
}

// Ensure Channel implements notify.Channel
var _ notify.Channel = (*Channel)(nil)

// Name implements notify.Channel.Name
func (c *Channel) Name() string { return "pushover" }

// WithBaseURL overrides the API endpoint. Tests point this at a local
// httptest server.
func (c *Channel) WithBaseURL(base string) *Channel {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

// apiResponse is the subset of the Pushover response we care about:
// status is 1 on success and the request field is the delivery receipt.
type apiResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

// Send implements notify.Channel.Send
// The message recipient is the Pushover user key to deliver to.
func (c *Channel) Send(ctx context.Context, msg notify.Message) (string, error) {
	if c.apiToken == "" {
		return "", notify.ErrChannelDisabled
	}

	form := url.Values{}
	form.Set("token", c.apiToken)
	form.Set("user", msg.Recipient)
	form.Set("title", msg.Title)
	form.Set("message", msg.Body)
	form.Set("priority", strconv.Itoa(int(msg.Priority)))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/1/messages.json",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pushover request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode pushover response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || body.Status != 1 {
		return "", fmt.Errorf("pushover rejected message: http %d, status %d, errors %v",
			resp.StatusCode, body.Status, body.Errors)
	}

	return body.Request, nil
}
