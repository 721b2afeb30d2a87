package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clemtodo/reminder-api/internal/api"
	apiMiddleware "github.com/clemtodo/reminder-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and
// middleware. Everything under /api sits behind the bearer token; only
// the health endpoint is public.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	sweepHandler := api.NewSweepHandler(app.sweepEngine, app.logger)
	healthHandler := api.NewHealthHandler(app.config)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth.APIToken, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Patch("/tasks/{id}/complete", taskHandler.Complete)
		r.Patch("/tasks/{id}/due", taskHandler.EditDue)
		r.Delete("/tasks/{id}", taskHandler.Delete)

		r.Post("/check-reminders", sweepHandler.CheckReminders)
		r.Post("/admin/reset-processed", sweepHandler.ResetProcessed)
	})

	r.Get("/health", healthHandler.Check)

	return r
}
