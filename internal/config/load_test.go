package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for Load to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REMIND_DATABASE_URL", "postgres://localhost:5432/reminders")
	t.Setenv("REMIND_AUTH_API_TOKEN", "0123456789abcdef0123")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "pushover", cfg.Notify.Provider)
	assert.Equal(t, 6, cfg.Sweep.LookbackHours)
	assert.Equal(t, 60, cfg.Sweep.BucketMinutes)
	assert.Equal(t, 24, cfg.Sweep.ResetRewindHours)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMIND_SERVER_PORT", "9090")
	t.Setenv("REMIND_SERVER_LOG_LEVEL", "debug")
	t.Setenv("REMIND_NOTIFY_PROVIDER", "whatsapp")
	t.Setenv("REMIND_SWEEP_LOOKBACK_HOURS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "whatsapp", cfg.Notify.Provider)
	assert.Equal(t, 12, cfg.Sweep.LookbackHours)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("REMIND_AUTH_API_TOKEN", "0123456789abcdef0123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadShortAPIToken(t *testing.T) {
	t.Setenv("REMIND_DATABASE_URL", "postgres://localhost:5432/reminders")
	t.Setenv("REMIND_AUTH_API_TOKEN", "short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadInvalidProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMIND_NOTIFY_PROVIDER", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMissingChannelCredentialsStillValid(t *testing.T) {
	// Channel credentials are optional: the channel is constructed
	// disabled instead of failing startup.
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Notify.Pushover.APIToken)
	assert.Empty(t, cfg.Notify.Twilio.AccountSID)
}
