// Package websocket provides the WebSocket server and connection handling.
// file: websocket/connection.go
package websocket

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"mergington-activities/logger"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one browser tab.
type Connection struct {
	conn   WSConn
	send   chan []byte
	pageID string
	hub    *Hub
}

// ServeWs upgrades the HTTP request to a WebSocket connection bound to pageID
// and starts the read and write pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, pageID string) {
	if pageID == "" {
		logger.Error.Println("[ServeWs] No page ID; rejecting WebSocket connection")
		http.Error(w, "No page selected", http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, page=%q", r.RemoteAddr, pageID)
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := h.newConnection(wsConn, pageID)
	go c.readPump()
	go c.writePump()
}

func (h *Hub) newConnection(conn WSConn, pageID string) *Connection {
	c := &Connection{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		pageID: pageID,
		hub:    h,
	}
	h.register(c)
	return c
}

// readPump keeps the read deadline fresh and detects disconnects.
// Browsers only listen, so inbound text is ignored.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			}
			return
		}
		logger.Debug.Printf("[readPump] Ignoring inbound messageType=%d from page %s", messageType, c.pageID)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}
