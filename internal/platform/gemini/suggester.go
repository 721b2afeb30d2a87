// Package gemini implements the planner.Suggester interface using
// Google's Gemini API to propose reminder instants for a task. The
// capability is best-effort: every failure mode here surfaces as an
// error, and the planner falls back to its deterministic single
// reminder.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/planner"
	"google.golang.org/genai"
)

// Common suggester errors.
var (
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini API key cannot be empty")

	// ErrInvalidResponse indicates the model returned something that
	// could not be parsed into timestamps.
	ErrInvalidResponse = errors.New("invalid suggestion response")
)

// systemInstruction steers the model toward the reminder-count policy:
// complexity-scaled counts, local reasonable hours, even spacing.
const systemInstruction = "Complex tasks (CV/report): 3-4 reminders. " +
	"Medium (garage/files): 2-3. Quick (calls/errands): 1-2. " +
	"08:00-22:00 UK time only for reminder times. Space evenly. " +
	"Return a JSON array of ISO 8601 UTC timestamps and nothing else."

// Suggester calls the Gemini API to propose reminder instants.
type Suggester struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Suggester from LLM configuration.
// Returns ErrMissingAPIKey if no key is configured; callers then run
// without a suggester and the planner always falls back.
func New(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (*Suggester, error) {
	if log == nil {
		log = slog.Default()
	}

	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := cfg.ModelName
	if model == "" {
		model = "gemini-2.0-flash"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Suggester{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  log.With(slog.String("component", "gemini_suggester")),
	}, nil
}

// Ensure Suggester implements planner.Suggester
var _ planner.Suggester = (*Suggester)(nil)

// Suggest implements planner.Suggester.Suggest
// The call is bounded by the configured timeout; a slow or unreachable
// model is an error, never a hang.
func (s *Suggester) Suggest(
	ctx context.Context,
	title string,
	priority domain.Priority,
	due, now time.Time,
) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildPrompt(title, priority, due, now)

	s.logger.Debug("requesting reminder suggestions",
		slog.String("model", s.model),
		slog.String("title", title))

	resp, err := s.client.Models.GenerateContent(
		ctx,
		s.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.3),
			MaxOutputTokens:   150,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	instants, err := parseTimestamps(resp.Text())
	if err != nil {
		s.logger.Warn("unparseable suggestion response",
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.Debug("reminder suggestions received",
		slog.Int("count", len(instants)))
	return instants, nil
}

// buildPrompt mirrors the shape the model was tuned against: the task,
// the clock, and the reminder-count rules.
func buildPrompt(title string, priority domain.Priority, due, now time.Time) string {
	return fmt.Sprintf(`Given:
Task: %s
Priority: %s
Due: %s
Now: %s

Rules:
- Complex tasks (update CV) → 3-4 reminders
- Medium tasks (clean garage) → 2-3 reminders
- Quick tasks (buy wine) → 1-2 reminders
- Only 08:00-22:00 UK time
- Space evenly

Output: JSON array only.`,
		title,
		priority,
		due.UTC().Format(time.RFC3339),
		now.UTC().Format(time.RFC3339),
	)
}

// parseTimestamps decodes the model output as a JSON array of ISO 8601
// timestamps. Markdown code fences around the array are tolerated;
// anything else is ErrInvalidResponse.
func parseTimestamps(text string) ([]time.Time, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, fmt.Errorf("%w: empty output", ErrInvalidResponse)
	}

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	instants := make([]time.Time, 0, len(raw))
	for _, item := range raw {
		t, err := parseInstant(item)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", ErrInvalidResponse, item, err)
		}
		instants = append(instants, t.UTC())
	}

	if len(instants) == 0 {
		return nil, fmt.Errorf("%w: no timestamps in output", ErrInvalidResponse)
	}

	return instants, nil
}

// parseInstant accepts RFC3339 and the zoneless variant models
// sometimes emit, which is read as UTC.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
