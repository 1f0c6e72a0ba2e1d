package notify

import (
	"sync"

	"github.com/gorilla/websocket"

	"monitoring-service/internal/logging"
)

const maxConnsPerBuilding = 10

// Hub manages WebSocket connections keyed by building. Subscribers with an
// empty building id receive every broadcast.
type Hub struct {
	mu     sync.Mutex
	conns  map[string]map[*websocket.Conn]bool
	logger *logging.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]map[*websocket.Conn]bool),
		logger: logger,
	}
}

// Add registers a connection for a building.
func (h *Hub) Add(buildingID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.conns[buildingID]; !exists {
		h.conns[buildingID] = make(map[*websocket.Conn]bool)
	}
	if len(h.conns[buildingID]) >= maxConnsPerBuilding {
		h.logger.Warnf("Max connections reached for building %q", buildingID)
		return
	}
	h.conns[buildingID][conn] = true
	h.logger.Infof("Added WebSocket connection for building %q (total: %d)", buildingID, len(h.conns[buildingID]))
}

// Remove drops a connection for a building.
func (h *Hub) Remove(buildingID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, exists := h.conns[buildingID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, buildingID)
		}
	}
}

// Broadcast sends payload to the building's subscribers and to subscribers
// of all buildings. Failed connections are dropped.
func (h *Hub) Broadcast(buildingID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range []string{buildingID, ""} {
		conns, exists := h.conns[key]
		if !exists {
			continue
		}
		for conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Errorf("Failed to send WebSocket message for building %q: %v", key, err)
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(h.conns, key)
		}
	}
}
