package api

import (
	"net/http"

	"github.com/clemtodo/reminder-api/internal/api/shared"
	"github.com/clemtodo/reminder-api/internal/config"
)

// HealthResponse reports liveness plus which optional capabilities are
// configured. No secret values appear here, only presence booleans.
type HealthResponse struct {
	Status             string `json:"status"`
	DatabaseConfigured bool   `json:"database_configured"`
	LLMConfigured      bool   `json:"llm_configured"`
	NotifyProvider     string `json:"notify_provider"`
	NotifyConfigured   bool   `json:"notify_configured"`
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	if cfg == nil {
		panic("config cannot be nil")
	}
	return &HealthHandler{cfg: cfg}
}

// Check handles GET /health requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:             "ok",
		DatabaseConfigured: h.cfg.Database.URL != "",
		LLMConfigured:      h.cfg.LLM.GeminiAPIKey != "",
		NotifyProvider:     h.cfg.Notify.Provider,
		NotifyConfigured:   h.notifyConfigured(),
	})
}

// notifyConfigured reports whether the selected channel has its
// credentials present.
func (h *HealthHandler) notifyConfigured() bool {
	switch h.cfg.Notify.Provider {
	case "pushover":
		return h.cfg.Notify.Pushover.APIToken != ""
	case "whatsapp":
		t := h.cfg.Notify.Twilio
		return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
	default:
		return false
	}
}
