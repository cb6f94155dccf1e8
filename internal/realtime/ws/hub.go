package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/duckrace/internal/model"
)

// Hub tracks every open websocket connection by id
type Hub struct {
	clients map[model.PlayerID]*Client
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.PlayerID]*Client),
		logger:  logger.With(slog.String("component", "ws-hub")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("conn", string(client.id)),
		slog.Int("total_clients", clientCount))
}

// Unregister removes a client and closes its send queue. Safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.id]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client unregistered",
		slog.String("conn", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Send queues a frame for one connection without blocking. It reports
// false when the connection is unknown or its queue is full.
func (h *Hub) Send(id model.PlayerID, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[id]
	if !ok {
		return false
	}
	select {
	case client.send <- frame:
		return true
	default:
		h.logger.Warn("ws message dropped - client buffer full",
			slog.String("conn", string(id)))
		return false
	}
}

// CloseAll unregisters every client so their writers flush and close
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clientCount := len(h.clients)
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	h.logger.Info("ws hub closed", slog.Int("disconnected_clients", clientCount))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
