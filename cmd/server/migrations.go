package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/clemtodo/reminder-api/migrations"
)

// runMigrations applies all pending goose migrations from the embedded
// migration set. Called once at startup, never from the sweep path.
func (app *application) runMigrations() error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(app.db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(app.db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	app.logger.Info("migrations applied",
		slog.Int64("db_version", version))
	return nil
}
