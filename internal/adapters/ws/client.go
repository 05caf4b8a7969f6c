// Package ws owns the server side of the push connections: it upgrades
// HTTP requests, registers the resulting connections with a pool, and keeps
// them alive with pings until the peer goes away.
package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Keepalive timing. The pong wait must exceed the ping period so a healthy
// peer always answers before the read deadline fires.
const (
	pingPeriod = 30 * time.Second
	pongWait   = 40 * time.Second
	writeWait  = 10 * time.Second
)

// Client wraps one websocket connection behind the registry.Conn surface.
// Writes are serialized with a mutex; gorilla connections permit only one
// concurrent writer.
type Client struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed atomic.Bool
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// Send writes v as a JSON text message.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Open reports whether the connection is still usable for writes.
func (c *Client) Open() bool {
	return !c.closed.Load()
}

// ping sends a control ping frame.
func (c *Client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// shut marks the client closed and closes the underlying connection.
func (c *Client) shut() {
	if c.closed.CompareAndSwap(false, true) {
		_ = c.conn.Close()
	}
}
