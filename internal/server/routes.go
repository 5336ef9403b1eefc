package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route - reminder and session events for the presentation layer
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Session lifecycle
	mux.HandleFunc("/api/session/connect", s.app.SessionHandler.ConnectHandler)       // POST
	mux.HandleFunc("/api/session/status", s.app.SessionHandler.StatusHandler)         // GET
	mux.HandleFunc("/api/session/disconnect", s.app.SessionHandler.DisconnectHandler) // POST

	// API routes - Issues and worklogs
	mux.HandleFunc("/api/issues", s.app.IssueHandler.ListHandler)       // GET
	mux.HandleFunc("/api/worklogs", s.app.WorklogHandler.CreateHandler) // POST

	// API routes - Operational
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)   // GET
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler) // GET

	return mux
}
