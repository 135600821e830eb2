package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/legalese-navigator/portal-backend/v1/models"
	authutils "github.com/legalese-navigator/portal-backend/v1/utils"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks websocket connections keyed by authenticated user ID. Events
// are delivered only to the connections of their target user; filtering
// happens here, never on the client.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]bool
}

// NewHub creates a new connection hub
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*websocket.Conn]bool),
	}
}

// ServeWS upgrades the request to a websocket and registers the connection
// under the authenticated user. The JWT middleware must run before this
// handler; the subscription identity comes from the verified token, not from
// anything the client sends.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	user, err := authutils.RequireAuthentication(r)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "user", user.IdpUserID, "error", err)
		return
	}

	h.register(user.IdpUserID, conn)
	slog.Info("Realtime client connected", "user", user.IdpUserID)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Drain the connection; clients don't send application messages, but the
	// read loop is what notices disconnects
	go func() {
		defer func() {
			h.unregister(user.IdpUserID, conn)
			conn.Close()
			slog.Info("Realtime client disconnected", "user", user.IdpUserID)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish delivers a notification event to every connection of its target
// user. Users without open connections are not an error; they will see the
// notification on their next poll.
func (h *Hub) Publish(event *models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[event.UserID]))
	for conn := range h.conns[event.UserID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Warn("Failed to deliver realtime event, dropping connection", "user", event.UserID, "error", err)
			h.unregister(event.UserID, conn)
			conn.Close()
		}
	}

	return nil
}

// ConnectionCount returns the number of open connections for a user
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}
