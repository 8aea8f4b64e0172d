package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/whisperbox/internal/models"
)

// Hub fans newly accepted messages out to each owner's connected clients.
// Registration is keyed by user ID; a user may hold several connections
// (multiple tabs or devices).
type Hub struct {
	mu    sync.RWMutex
	users map[uint]map[*Client]bool
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{users: make(map[uint]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[c.userID]
	if clients == nil {
		clients = make(map[*Client]bool)
		h.users[c.userID] = clients
	}
	clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[c.userID]
	if clients == nil {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}
	if len(clients) == 0 {
		delete(h.users, c.userID)
	}
}

// Online returns the number of open connections for a user
func (h *Hub) Online(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// MessageEvent is the payload pushed for each new inbox message
type MessageEvent struct {
	Type      string    `json:"type"`
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NotifyMessage pushes a new message to all of the owner's connections.
// Slow clients are dropped rather than blocking intake.
func (h *Hub) NotifyMessage(userID uint, message *models.Message) {
	evt := MessageEvent{
		Type:      "message",
		ID:        message.ID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[userID]
	for c := range clients {
		select {
		case c.send <- payload:
		default:
			delete(clients, c)
			close(c.send)
		}
	}
	if len(clients) == 0 {
		delete(h.users, userID)
	}
}
