package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/interfaces"
	"github.com/ternarybob/tempo/internal/models"
	"github.com/ternarybob/tempo/internal/services/session"
)

// ConnectRequest is the inbound body for session connection.
type ConnectRequest struct {
	BaseURL  string `json:"base_url" validate:"required,url"`
	Email    string `json:"email" validate:"required,email"`
	APIToken string `json:"api_token" validate:"required"`
}

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	sessionService interfaces.SessionService
	validate       *validator.Validate
	logger         arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// ConnectHandler handles POST /api/session/connect
func (h *SessionHandler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse connect request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn().Err(err).Msg("Connect request failed validation")
		WriteError(w, http.StatusBadRequest, "base_url, email and api_token are required")
		return
	}

	creds := models.Credentials{
		BaseURL:  req.BaseURL,
		Email:    req.Email,
		APIToken: req.APIToken,
	}

	if err := h.sessionService.Connect(r.Context(), creds); err != nil {
		// The user-facing message stays terse; the detailed cause (auth vs
		// network vs TLS) is already in the logs.
		if errors.Is(err, session.ErrConnectionFailed) {
			WriteError(w, http.StatusUnauthorized, "Failed to connect to Jira")
		} else {
			WriteError(w, http.StatusBadGateway, "Failed to connect to Jira")
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"connected": true,
		"base_url":  req.BaseURL,
	})
}

// StatusHandler handles GET /api/session/status
func (h *SessionHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	response := map[string]interface{}{
		"connected": false,
	}

	if client, ok := h.sessionService.Current(); ok {
		response["connected"] = true
		response["base_url"] = client.Credentials().BaseURL
		response["email"] = client.Credentials().Email
	}

	WriteJSON(w, http.StatusOK, response)
}

// DisconnectHandler handles POST /api/session/disconnect
func (h *SessionHandler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	// Disconnect is unconditional and idempotent.
	h.sessionService.Disconnect()

	WriteSuccess(w, "Disconnected from Jira")
}
