package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clemtodo/reminder-api/internal/config"
	"github.com/clemtodo/reminder-api/internal/notify"
	"github.com/clemtodo/reminder-api/internal/planner"
	"github.com/clemtodo/reminder-api/internal/platform/gemini"
	"github.com/clemtodo/reminder-api/internal/platform/postgres"
	"github.com/clemtodo/reminder-api/internal/platform/pushover"
	"github.com/clemtodo/reminder-api/internal/platform/twilio"
	"github.com/clemtodo/reminder-api/internal/service"
	"github.com/clemtodo/reminder-api/internal/sweep"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskService *service.TaskService
	sweepEngine *sweep.Engine
}

// newApplication connects the database and wires stores, planner,
// notification channel, task service, and sweep engine.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	taskStore := postgres.NewPostgresTaskStore(db, log)
	reminderStore := postgres.NewPostgresReminderStore(db, log)
	processedStore := postgres.NewPostgresProcessedStore(db, log)
	watermarkStore := postgres.NewPostgresWatermarkStore(db, log)

	suggester, err := buildSuggester(ctx, cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	reminderPlanner := planner.New(suggester, log)
	taskService := service.NewTaskService(db, taskStore, reminderStore, reminderPlanner, log)

	channel, defaultRecipient, err := buildChannel(cfg.Notify, log)
	if err != nil {
		return nil, err
	}
	dispatcher := notify.NewDispatcher(channel, defaultRecipient, log)

	sweepEngine := sweep.NewEngine(
		reminderStore,
		processedStore,
		watermarkStore,
		dispatcher,
		cfg.Sweep,
		log,
	)

	return &application{
		config:      cfg,
		logger:      log,
		db:          db,
		taskService: taskService,
		sweepEngine: sweepEngine,
	}, nil
}

// buildSuggester creates the Gemini suggester, or returns nil when no
// API key is configured so the planner always falls back.
func buildSuggester(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (planner.Suggester, error) {
	s, err := gemini.New(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			log.Warn("no Gemini API key configured, reminder suggestions disabled")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create suggester: %w", err)
	}
	return s, nil
}

// buildChannel constructs the configured notification channel and the
// default recipient for tasks without an override. A channel missing
// credentials is constructed disabled rather than failing startup.
func buildChannel(cfg config.NotifyConfig, log *slog.Logger) (notify.Channel, string, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Provider {
	case "pushover":
		recipient := cfg.DefaultRecipient
		if recipient == "" {
			recipient = cfg.Pushover.UserKey
		}
		return pushover.New(cfg.Pushover, timeout, log), recipient, nil

	case "whatsapp":
		return twilio.New(cfg.Twilio, timeout, log), cfg.DefaultRecipient, nil

	default:
		return nil, "", fmt.Errorf("unknown notification provider %q", cfg.Provider)
	}
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection",
				slog.String("error", err.Error()))
		}
	}
}
