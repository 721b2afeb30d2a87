// Package api provides HTTP handlers for the API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/clemtodo/reminder-api/internal/api/shared"
	"github.com/clemtodo/reminder-api/internal/domain"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/service"
)

// TaskManager is the slice of the task service the handler needs.
type TaskManager interface {
	Create(ctx context.Context, params service.CreateTaskParams) (*service.TaskWithReminders, error)
	List(ctx context.Context) (*service.TaskList, error)
	Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	EditDue(ctx context.Context, id uuid.UUID, params service.ReplanParams) (*service.TaskWithReminders, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateTaskRequest represents the request body for task creation.
type CreateTaskRequest struct {
	Title     string    `json:"title"      validate:"required"`
	DueTime   time.Time `json:"due_time"   validate:"required"`
	Priority  string    `json:"priority"   validate:"required,oneof=High Medium Low"`
	Recipient string    `json:"recipient"`

	// SingleReminder selects one deterministic reminder HoursBefore the
	// due time instead of the suggested plan.
	SingleReminder bool    `json:"single_reminder"`
	HoursBefore    float64 `json:"hours_before"    validate:"omitempty,gt=0"`
}

// EditDueRequest represents the request body for a due-date edit.
type EditDueRequest struct {
	DueTime        time.Time `json:"due_time"        validate:"required"`
	SingleReminder bool      `json:"single_reminder"`
	HoursBefore    float64   `json:"hours_before"    validate:"omitempty,gt=0"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks    TaskManager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks TaskManager, log *slog.Logger) *TaskHandler {
	if tasks == nil {
		panic("task manager cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskHandler{
		tasks:    tasks,
		validate: validator.New(),
		logger:   log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /api/tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	created, err := h.tasks.Create(r.Context(), service.CreateTaskParams{
		Title:          req.Title,
		DueTime:        req.DueTime,
		Priority:       domain.Priority(req.Priority),
		Recipient:      req.Recipient,
		SingleReminder: req.SingleReminder,
		HoursBefore:    req.HoursBefore,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created via API",
		slog.String("task_id", created.Task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// List handles GET /api/tasks requests.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tasks.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

// Complete handles PATCH /api/tasks/{id}/complete requests.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Complete(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// EditDue handles PATCH /api/tasks/{id}/due requests.
func (h *TaskHandler) EditDue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req EditDueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	edited, err := h.tasks.EditDue(r.Context(), id, service.ReplanParams{
		DueTime:        req.DueTime,
		SingleReminder: req.SingleReminder,
		HoursBefore:    req.HoursBefore,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, edited)
}

// Delete handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskID extracts and parses the {id} URL parameter. On failure it
// writes the error response and returns ok=false.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}
