// Package main implements the entry point for the reminder API server:
// task CRUD, reminder planning, and the periodic reminder sweep behind
// a single pre-shared bearer token.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application, applies migrations,
// and serves HTTP until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("notify_provider", cfg.Notify.Provider),
		slog.Bool("llm_configured", cfg.LLM.GeminiAPIKey != ""))

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if err := app.runMigrations(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
