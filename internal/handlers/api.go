package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/common"
	"github.com/ternarybob/tempo/internal/interfaces"
)

// APIHandler serves operational endpoints (health, version).
type APIHandler struct {
	sessionService  interfaces.SessionService
	reminderService interfaces.ReminderService
	logger          arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(sessionService interfaces.SessionService, reminderService interfaces.ReminderService, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		sessionService:  sessionService,
		reminderService: reminderService,
		logger:          logger,
	}
}

// HealthHandler handles GET /api/health
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"connected":        h.sessionService.IsAuthenticated(),
		"reminder_running": h.reminderService.IsRunning(),
	})
}

// VersionHandler handles GET /api/version
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"full":    common.GetFullVersion(),
	})
}
