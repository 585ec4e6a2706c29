package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tableside/utils"
)

// Hub holds every live websocket connection: the staff set (the "manager
// room") and guest connections keyed by channel id. It implements
// Broadcaster. Unlike persistence, hub state is transient and rebuilt from
// connect/disconnect events.
type Hub struct {
	mu     sync.Mutex
	staff  map[*websocket.Conn]string // conn -> role
	guests map[string]*websocket.Conn // channel id -> conn
	router *SessionRouter
}

func NewHub(router *SessionRouter) *Hub {
	return &Hub{
		staff:  make(map[*websocket.Conn]string),
		guests: make(map[string]*websocket.Conn),
		router: router,
	}
}

// Router exposes the session router for channel resolution.
func (h *Hub) Router() *SessionRouter {
	return h.router
}

// RegisterStaff adds a connection to the manager room.
func (h *Hub) RegisterStaff(conn *websocket.Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.staff[conn] = role
}

// RegisterGuest allocates a fresh channel id for the connection and binds it
// in the session router. If the guest was already connected elsewhere, the
// stale connection is closed and its mapping replaced.
func (h *Hub) RegisterGuest(conn *websocket.Conn, guestID uint) string {
	channelID := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()

	if previous := h.router.Connect(guestID, channelID); previous != "" {
		if stale, ok := h.guests[previous]; ok {
			stale.Close()
			delete(h.guests, previous)
		}
	}
	h.guests[channelID] = conn
	return channelID
}

// UnregisterStaff drops a staff connection.
func (h *Hub) UnregisterStaff(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.staff, conn)
	conn.Close()
}

// UnregisterGuest drops a guest channel and its router mapping.
func (h *Hub) UnregisterGuest(channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.guests[channelID]; ok {
		delete(h.guests, channelID)
		conn.Close()
	}
	h.router.Disconnect(channelID)
}

// Publish sends the event to the addressed audience. Write failures are
// logged and skipped; delivery never blocks or fails the caller.
func (h *Hub) Publish(audience Audience, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", msg.Event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if audience.Staff {
		for conn := range h.staff {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.Printf("write %s event to staff: %v", msg.Event, err)
			}
		}
	}
	if audience.GuestChannel != "" {
		if conn, ok := h.guests[audience.GuestChannel]; ok {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.Printf("write %s event to guest channel %s: %v", msg.Event, audience.GuestChannel, err)
			}
		}
	}
}
