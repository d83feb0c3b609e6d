package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"task-tracker-api/internal/models"
)

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub tracks connected clients per username and fans task events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[Client]struct{}),
	}
}

// Register adds a client under a username.
func (h *Hub) Register(username string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[username]; !ok {
		h.clients[username] = make(map[Client]struct{})
	}
	h.clients[username][client] = struct{}{}
}

// Unregister removes a client; if the user has no more clients, cleans up map.
func (h *Hub) Unregister(username string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[username]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, username)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// BroadcastAll sends message to every connected client. Sends happen outside
// the lock so a slow client does not block Register or Unregister.
// Failed writes are left for the owning handler to clean up.
func (h *Hub) BroadcastAll(message []byte) {
	for _, c := range h.snapshot() {
		c.Send(message)
	}
}

func (h *Hub) snapshot() []Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Client, 0, len(h.clients))
	for _, clients := range h.clients {
		for c := range clients {
			out = append(out, c)
		}
	}
	return out
}

// Publish implements service.EventPublisher.
func (h *Hub) Publish(event models.TaskEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[realtime] failed to encode %s event: %v", event.Type, err)
		return
	}
	h.BroadcastAll(payload)
}
