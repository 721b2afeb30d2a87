package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present,
// a config.yaml in the working directory. Environment variables take
// precedence and use the REMIND_ prefix with underscores for nesting,
// e.g. REMIND_SERVER_PORT or REMIND_NOTIFY_PUSHOVER_API_TOKEN.
// Returns a populated, validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Viper only binds env vars it has seen as defaults or file keys, so
	// register every key we expect from the environment.
	for _, key := range envBoundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env key %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envBoundKeys lists the keys that may arrive only via environment
// variables, with no default and no config-file entry.
var envBoundKeys = []string{
	"database.url",
	"auth.api_token",
	"llm.gemini_api_key",
	"notify.default_recipient",
	"notify.pushover.api_token",
	"notify.pushover.user_key",
	"notify.twilio.account_sid",
	"notify.twilio.auth_token",
	"notify.twilio.from_number",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.timeout_seconds", 20)
	v.SetDefault("notify.provider", "pushover")
	v.SetDefault("notify.timeout_seconds", 10)
	v.SetDefault("sweep.lookback_hours", 6)
	v.SetDefault("sweep.bucket_minutes", 60)
	v.SetDefault("sweep.reset_rewind_hours", 24)
}
