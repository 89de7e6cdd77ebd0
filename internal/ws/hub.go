package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/logger"
	"github.com/flastal/flastal-backend/internal/models"
)

// recipientKey identifies one connected account. Fans and florists live
// in different tables, so the ID alone is not unique across kinds.
type recipientKey struct {
	kind string
	id   uuid.UUID
}

// Hub fans stored notifications out to live WebSocket connections. It
// never persists anything itself; by the time a message reaches the hub
// the notification row is already committed.
type Hub struct {
	mu         sync.RWMutex
	clients    map[recipientKey]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	key     recipientKey
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[recipientKey]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It owns the client map mutations.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.key, msg.payload)
		case <-h.done:
			return
		}
	}
}

// Shutdown stops the hub loop.
func (h *Hub) Shutdown() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push implements the notification push contract: the wire message
// carries the notification type in "type" and the full record in
// "data".
func (h *Hub) Push(recipientKind string, recipientID uuid.UUID, n *models.Notification) {
	payload, err := json.Marshal(map[string]any{
		"type": n.Type,
		"data": n,
	})
	if err != nil {
		logger.Log.WithError(err).Error("ws: failed to marshal notification")
		return
	}

	select {
	case h.broadcast <- message{key: recipientKey{kind: recipientKind, id: recipientID}, payload: payload}:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := client.key()
	if _, ok := h.clients[key]; !ok {
		h.clients[key] = make(map[*Client]struct{})
	}
	h.clients[key][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := client.key()
	if clients, ok := h.clients[key]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, key)
		}
	}
}

func (h *Hub) send(key recipientKey, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[key] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the connection rather than the hub.
			go client.Close()
		}
	}
}
