package ws

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/flastal/flastal-backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one WebSocket connection. The server only pushes; inbound
// frames are read solely to service pings and detect closure.
type Client struct {
	conn          *websocket.Conn
	hub           *Hub
	recipientKind string
	recipientID   uuid.UUID
	send          chan []byte
}

func NewClient(conn *websocket.Conn, hub *Hub, recipientKind string, recipientID uuid.UUID) *Client {
	return &Client{
		conn:          conn,
		hub:           hub,
		recipientKind: recipientKind,
		recipientID:   recipientID,
		send:          make(chan []byte, 16),
	}
}

func (c *Client) key() recipientKey {
	return recipientKey{kind: c.recipientKind, id: c.recipientID}
}

// Run pumps messages until the connection or the context dies.
func (c *Client) Run(ctx context.Context) {
	go c.writePumpSafe()
	c.readPump(ctx)
}

func (c *Client) writePumpSafe() {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("ws write pump panic: %v\nstack:\n%s", r, debug.Stack())
			c.Close()
		}
	}()
	c.writePump()
}

func (c *Client) Close() {
	c.hub.Unregister(c)
	c.conn.Close()
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("ws read pump panic: %v\nstack:\n%s", r, debug.Stack())
		}
		c.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
