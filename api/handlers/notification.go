package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/api"
)

const wsWriteWait = 10 * time.Second

// ModerationHub pushes moderation events to connected moderators over websockets
type ModerationHub struct {
	upgrader websocket.Upgrader
	clients  map[*hubClient]struct{}
	mutex    sync.Mutex
}

type hubClient struct {
	userID string
	conn   *websocket.Conn
	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

// NewModerationHub returns an empty hub. allowedOrigin restricts browser
// origins; empty accepts any origin.
func NewModerationHub(allowedOrigin string) *ModerationHub {
	return &ModerationHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
		clients: make(map[*hubClient]struct{}),
	}
}

// HandleModerationWebSocket upgrades an authenticated moderator connection and
// keeps it registered until the peer goes away.
func (h *ModerationHub) HandleModerationWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade error", "error", err)
		return
	}

	c := &hubClient{userID: identity.UserID, conn: conn}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	zap.S().Infow("moderator connected to /ws/moderation", "userId", c.userID)

	// read until the peer closes; moderators never send anything meaningful
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.remove(c)
	zap.S().Infow("moderator disconnected from /ws/moderation", "userId", c.userID)
}

// Broadcast sends an event to every connected moderator
func (h *ModerationHub) Broadcast(event string, data interface{}) {
	h.mutex.Lock()
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mutex.Unlock()

	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}
	for _, c := range clients {
		c.writeMu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		err := c.conn.WriteJSON(msg)
		c.writeMu.Unlock()
		if err != nil {
			zap.S().Warnw("failed to push moderation event",
				"event", event,
				"userId", c.userID,
				"error", err)
			h.remove(c)
		}
	}
}

// Connected is the number of live moderator connections
func (h *ModerationHub) Connected() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Close disconnects every moderator
func (h *ModerationHub) Close() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*hubClient]struct{})
	h.mutex.Unlock()
	for c := range clients {
		c.conn.Close()
	}
}

func (h *ModerationHub) remove(c *hubClient) {
	h.mutex.Lock()
	delete(h.clients, c)
	h.mutex.Unlock()
	c.conn.Close()
}
