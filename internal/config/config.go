package config

// Config holds all application configuration.
// It organizes settings into logical groups and is constructed once at
// process start, then passed by injection into each component; there are
// no ambient configuration globals.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Notify   NotifyConfig   `mapstructure:"notify" validate:"required"`
	Sweep    SweepConfig    `mapstructure:"sweep" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the static bearer credential guarding the API.
// There is deliberately nothing more here: the sweep trigger and task
// endpoints share one pre-shared token.
type AuthConfig struct {
	APIToken string `mapstructure:"api_token" validate:"required,min=16"`
}

// LLMConfig contains settings for the reminder-suggestion capability.
// An empty API key disables suggestions; the planner then always uses
// its deterministic fallback.
type LLMConfig struct {
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	ModelName      string `mapstructure:"model_name"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
}

// NotifyConfig selects and configures the outbound notification channel.
// Missing credentials for the selected provider do not fail config
// validation: the channel is constructed disabled and every dispatch
// fails, which the sweep tolerates.
type NotifyConfig struct {
	// Provider selects the channel implementation.
	Provider string `mapstructure:"provider" validate:"required,oneof=pushover whatsapp"`

	// DefaultRecipient receives notifications for tasks without a
	// recipient override.
	DefaultRecipient string `mapstructure:"default_recipient"`

	// TimeoutSeconds bounds each outbound send call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`

	Pushover PushoverConfig `mapstructure:"pushover"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
}

// PushoverConfig contains Pushover API credentials.
type PushoverConfig struct {
	APIToken string `mapstructure:"api_token"`
	UserKey  string `mapstructure:"user_key"`
}

// TwilioConfig contains Twilio credentials for the WhatsApp channel.
type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
}

// SweepConfig contains the tunable constants of the sweep engine. The
// catch-up lookback and bucket size are configuration, not invariants.
type SweepConfig struct {
	// LookbackHours is the catch-up window added behind the current
	// local hour to tolerate irregular trigger intervals.
	LookbackHours int `mapstructure:"lookback_hours" validate:"required,gt=0"`

	// BucketMinutes is the width of the "current hour" bucket ahead of
	// the hour floor.
	BucketMinutes int `mapstructure:"bucket_minutes" validate:"required,gt=0"`

	// ResetRewindHours is how far the administrative reset rewinds the
	// watermark.
	ResetRewindHours int `mapstructure:"reset_rewind_hours" validate:"required,gt=0"`
}
