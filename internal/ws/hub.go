// Package ws pushes progression events (level-ups, balance changes, daily
// claims) to connected readers. One user may hold several connections
// (reader tab + storefront tab); events fan out to all of them.
package ws

import (
	"encoding/json"
	"sync"

	"comic_platform/internal/logger"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := conns[c]; ok {
		delete(conns, c)
		close(c.Send)
	}
	if len(conns) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Publish sends an event to every connection the user has open. Implements
// service.EventSink. Slow consumers are dropped rather than blocking the
// economy transaction path.
func (h *Hub) Publish(userID int64, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("marshal progress event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- payload:
		default:
			// buffer full; the client's writePump is stuck
			logger.Warn("dropping progress event, slow consumer", "user_id", userID)
		}
	}
}

// ConnectionCount reports open connections, used by the readiness probe.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
