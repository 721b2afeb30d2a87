package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clemtodo/reminder-api/internal/api/shared"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
	"github.com/clemtodo/reminder-api/internal/sweep"
)

// SweepRunner is the slice of the sweep engine the handler needs.
type SweepRunner interface {
	Run(ctx context.Context) (sweep.Result, error)
	Reset(ctx context.Context) (sweep.ResetResult, error)
}

// SweepHandler exposes the sweep trigger and the administrative ledger
// reset.
type SweepHandler struct {
	engine SweepRunner
	logger *slog.Logger
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(engine SweepRunner, log *slog.Logger) *SweepHandler {
	if engine == nil {
		panic("sweep runner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SweepHandler{
		engine: engine,
		logger: log.With(slog.String("component", "sweep_handler")),
	}
}

// CheckReminders handles POST /api/check-reminders requests. The sweep
// runs synchronously; partial failures are reported in the counts, not
// as an error status.
func (h *SweepHandler) CheckReminders(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.engine.Run(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Reminder sweep failed", err)
		return
	}

	log.Debug("sweep triggered via API",
		slog.Int("found", result.Found),
		slog.Int("sent", result.Sent))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ResetProcessed handles POST /api/admin/reset-processed requests.
func (h *SweepHandler) ResetProcessed(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.engine.Reset(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Ledger reset failed", err)
		return
	}

	log.Info("processed ledger reset via API",
		slog.Int64("cleared", result.Cleared))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
