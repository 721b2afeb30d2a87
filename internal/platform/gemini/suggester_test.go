package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamps(t *testing.T) {
	t.Parallel()

	want := []time.Time{
		time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 10, 16, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name  string
		input string
	}{
		{
			name:  "plain array",
			input: `["2024-06-10T12:00:00Z", "2024-06-10T16:00:00Z"]`,
		},
		{
			name:  "fenced array",
			input: "```json\n[\"2024-06-10T12:00:00Z\", \"2024-06-10T16:00:00Z\"]\n```",
		},
		{
			name:  "zoneless timestamps read as UTC",
			input: `["2024-06-10T12:00:00", "2024-06-10T16:00:00"]`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseTimestamps(tc.input)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.True(t, got[0].Equal(want[0]), "got %s", got[0])
			assert.True(t, got[1].Equal(want[1]), "got %s", got[1])
		})
	}
}

func TestParseTimestampsRejectsGarbage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"prose", "Here are your reminders: tomorrow at noon"},
		{"object not array", `{"reminders": ["2024-06-10T12:00:00Z"]}`},
		{"empty array", `[]`},
		{"bad timestamp", `["sometime tomorrow"]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseTimestamps(tc.input)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)

	prompt := buildPrompt("update CV", domain.PriorityHigh, due, now)

	assert.Contains(t, prompt, "Task: update CV")
	assert.Contains(t, prompt, "Priority: High")
	assert.Contains(t, prompt, "2024-06-10T18:00:00Z")
	assert.Contains(t, prompt, "2024-06-10T10:00:00Z")
	assert.Contains(t, prompt, "JSON array only")
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.LLMConfig{}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
