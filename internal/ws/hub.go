package ws

import (
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Hub tracks every live connection by its opaque id and implements the
// chat.Notifier capability. Delivery is best effort: a connection that
// fails a write is pruned and closed.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*clientConn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*clientConn)}
}

func (h *Hub) Add(connID string, c *clientConn) {
	h.mu.Lock()
	h.conns[connID] = c
	h.mu.Unlock()
}

// Remove drops and closes a connection. Safe to call twice.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	delete(h.conns, connID)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// Send delivers one event to a single connection. Unknown ids are ignored,
// the target may have disconnected between snapshot and delivery.
func (h *Hub) Send(connID, event string, body any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(connID, c, event, body)
}

// Broadcast fans one event out over a fixed membership snapshot. The
// snapshot was taken by the registry at mutation time; the I/O happens
// outside any lock.
func (h *Hub) Broadcast(connIDs []string, event string, body any) {
	for _, id := range connIDs {
		h.Send(id, event, body)
	}
}

// BroadcastAll delivers one event to every live connection, whatever room
// it is in (or none).
func (h *Hub) BroadcastAll(event string, body any) {
	h.mu.RLock()
	ids := lo.Keys(h.conns)
	h.mu.RUnlock()

	h.Broadcast(ids, event, body)
}

func (h *Hub) deliver(connID string, c *clientConn, event string, body any) {
	if err := c.writeJSON(outEnvelope{Event: event, Body: body}); err != nil {
		zap.L().Debug("ws.write_failed",
			zap.String("conn_id", connID),
			zap.String("event", event),
			zap.Error(err),
		)
		h.Remove(connID)
	}
}
