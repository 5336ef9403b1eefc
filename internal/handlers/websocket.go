package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tempo/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsMessage is the envelope pushed to connected presentation clients.
type wsMessage struct {
	Type             string      `json:"type"`
	Payload          interface{} `json:"payload,omitempty"`
	Timestamp        string      `json:"timestamp"`
	ServerInstanceID string      `json:"server_instance_id"`
}

// WebSocketHandler pushes reminder and session events to connected
// presentation clients (tray app, web UI). When no client is connected an
// event is dropped after a log line - the reminder loop itself is never
// blocked on delivery.
type WebSocketHandler struct {
	logger           arbor.ILogger
	clients          map[*websocket.Conn]bool
	clientMutex      map[*websocket.Conn]*sync.Mutex
	mu               sync.RWMutex
	eventService     interfaces.EventService
	serverInstanceID string // Unique ID generated on startup - clients use to detect server restart
}

// NewWebSocketHandler creates a new WebSocket handler and subscribes it to
// the events the presentation layer cares about.
func NewWebSocketHandler(eventService interfaces.EventService, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		clients:          make(map[*websocket.Conn]bool),
		clientMutex:      make(map[*websocket.Conn]*sync.Mutex),
		eventService:     eventService,
		serverInstanceID: uuid.New().String(),
	}

	for _, eventType := range []interfaces.EventType{
		interfaces.EventReminderDue,
		interfaces.EventSessionConnected,
		interfaces.EventSessionDisconnected,
		interfaces.EventWorklogCreated,
	} {
		eventService.Subscribe(eventType, h.handleEvent)
	}

	return h
}

// HandleWebSocket upgrades the connection and registers the client.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().
		Str("remote", r.RemoteAddr).
		Int("clients", clientCount).
		Msg("WebSocket client connected")

	// Read loop exists only to detect disconnects; clients do not send
	// commands over this channel.
	go func() {
		defer h.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of connected presentation clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WebSocketHandler) handleEvent(ctx context.Context, event interfaces.Event) error {
	h.broadcast(wsMessage{
		Type:             string(event.Type),
		Payload:          event.Payload,
		Timestamp:        time.Now().Format(time.RFC3339),
		ServerInstanceID: h.serverInstanceID,
	})
	return nil
}

func (h *WebSocketHandler) broadcast(msg wsMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		h.logger.Debug().
			Str("type", msg.Type).
			Msg("No WebSocket clients connected, event dropped")
		return
	}

	for _, conn := range conns {
		h.mu.RLock()
		connMu := h.clientMutex[conn]
		h.mu.RUnlock()
		if connMu == nil {
			continue
		}

		connMu.Lock()
		err := conn.WriteJSON(msg)
		connMu.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Msg("WebSocket write failed, removing client")
			h.removeClient(conn)
		}
	}
}

func (h *WebSocketHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, conn)
	delete(h.clientMutex, conn)
	clientCount := len(h.clients)
	h.mu.Unlock()

	conn.Close()

	h.logger.Info().
		Int("clients", clientCount).
		Msg("WebSocket client disconnected")
}
