package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/services/jira"
)

// IssueHandler serves the assigned-issues listing
type IssueHandler struct {
	sessionService interfaces.SessionService
	logger         arbor.ILogger
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(sessionService interfaces.SessionService, logger arbor.ILogger) *IssueHandler {
	return &IssueHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// ListHandler handles GET /api/issues - issues assigned to the current user.
func (h *IssueHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	client, ok := h.sessionService.Current()
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not connected to Jira. Connect a session first.")
		return
	}

	issues, err := client.GetAssignedIssues(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get assigned issues")

		var remoteErr *jira.RemoteError
		if errors.As(err, &remoteErr) {
			WriteError(w, http.StatusBadGateway, "Jira returned an error")
			return
		}
		WriteError(w, http.StatusBadGateway, "Failed to reach Jira")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"issues": issues,
		"count":  len(issues),
	})
}
