package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/medipulse/medipulse-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// emergencyEvent is the wire format pushed to dashboard clients.
type emergencyEvent struct {
	Event     string           `json:"event"`
	Emergency models.Emergency `json:"emergency"`
}

// EmergencyHub tracks connected dashboard clients and fans out emergency
// lifecycle events to them.
type EmergencyHub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

// NewEmergencyHub returns an empty hub.
func NewEmergencyHub() *EmergencyHub {
	return &EmergencyHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeWS upgrades the request and registers the client for emergency events
func (h *EmergencyHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
	zap.S().Debugf("client %s connected to /ws/emergencies", conn.RemoteAddr())

	// Drain reads until the client goes away, then unregister.
	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes an event to every connected client. Safe to call on a nil
// hub so handlers can be tested without a websocket server.
func (h *EmergencyHub) Broadcast(event string, e models.Emergency) {
	if h == nil {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(emergencyEvent{Event: event, Emergency: e}); err != nil {
			zap.S().Debugf("dropping websocket client %s: %v", conn.RemoteAddr(), err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
