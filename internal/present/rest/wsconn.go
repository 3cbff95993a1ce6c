package rest

import (
	"sync"

	"github.com/gorilla/websocket"
)

// wsConn serializes writes to a gorilla connection. Dispatch fan-out
// and the relay push from different goroutines; gorilla permits only
// one concurrent writer.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
