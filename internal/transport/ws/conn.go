package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"promptcraft/internal/domain"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// wsChannel adapts one gorilla connection to the hub's Channel. Events are
// queued on a buffered channel and flushed by writePump; a full buffer drops
// the event instead of blocking the sender.
type wsChannel struct {
	conn *websocket.Conn
	send chan domain.Event
	done chan struct{}

	closeOnce sync.Once
}

func newChannel(conn *websocket.Conn) *wsChannel {
	c := &wsChannel{
		conn: conn,
		send: make(chan domain.Event, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// Send never closes or blocks on the send queue, so it is safe to call
// concurrently with Close from any goroutine.
func (c *wsChannel) Send(ev domain.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

func (c *wsChannel) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *wsChannel) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			// Flush anything still queued, then say goodbye.
			for {
				select {
				case ev := <-c.send:
					c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := c.conn.WriteJSON(ev); err != nil {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					c.conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
