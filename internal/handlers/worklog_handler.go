package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/common"
	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/models"
	"github.com/ternarybob/tempo/internal/services/jira"
)

// WorklogRequest is the inbound body for worklog creation. TimeSpent is a
// short human duration ("2h", "30m", "1d"), not seconds.
type WorklogRequest struct {
	IssueKey    string                    `json:"issue_key" validate:"required"`
	Description string                    `json:"description" validate:"required"`
	Started     string                    `json:"started" validate:"required"`
	TimeSpent   string                    `json:"time_spent" validate:"required"`
	Visibility  *models.WorklogVisibility `json:"visibility,omitempty"`
}

// WorklogHandler handles worklog creation HTTP requests
type WorklogHandler struct {
	sessionService interfaces.SessionService
	eventService   interfaces.EventService
	validate       *validator.Validate
	logger         arbor.ILogger
}

// NewWorklogHandler creates a new worklog handler
func NewWorklogHandler(sessionService interfaces.SessionService, eventService interfaces.EventService, logger arbor.ILogger) *WorklogHandler {
	return &WorklogHandler{
		sessionService: sessionService,
		eventService:   eventService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// CreateHandler handles POST /api/worklogs
func (h *WorklogHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req WorklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse worklog request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "issue_key, description, started and time_spent are required")
		return
	}

	seconds, err := common.ParseWorkDuration(req.TimeSpent)
	if err != nil {
		h.logger.Warn().Err(err).Str("time_spent", req.TimeSpent).Msg("Invalid worklog duration")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, ok := h.sessionService.Current()
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not connected to Jira. Connect a session first.")
		return
	}

	worklog, err := client.CreateWorklog(r.Context(), req.IssueKey, req.Description, req.Started, seconds, req.Visibility)
	if err != nil {
		h.logger.Error().Err(err).Str("issue", req.IssueKey).Msg("Failed to create worklog")

		var remoteErr *jira.RemoteError
		if errors.As(err, &remoteErr) {
			WriteError(w, http.StatusBadGateway, "Jira rejected the worklog")
			return
		}
		WriteError(w, http.StatusBadGateway, "Failed to reach Jira")
		return
	}

	h.eventService.Publish(r.Context(), interfaces.Event{
		Type: interfaces.EventWorklogCreated,
		Payload: map[string]interface{}{
			"issue_key":          req.IssueKey,
			"worklog_id":         worklog.ID,
			"time_spent_seconds": worklog.TimeSpentSeconds,
		},
	})

	WriteJSON(w, http.StatusCreated, worklog)
}
