package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameBytes = 4 * 1024
	sendQueueSize = 32
)

// addUserPayload is the registration frame a client sends right after
// connecting, carrying the participant identity the connection belongs to.
type addUserPayload struct {
	UserID string `json:"userId"`
}

// Client is one live websocket connection. participantID is guarded by the
// hub's mutex and empty until the add-user frame arrives.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan outFrame

	participantID string

	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan outFrame, sendQueueSize),
	}
}

// trySend queues a frame without blocking. A full queue means the connection
// is too slow to keep up; the frame is dropped, delivery is best-effort.
func (c *Client) trySend(frame outFrame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump consumes inbound frames until the connection dies, then runs the
// disconnect transition. Unregister ignores this client if a reconnect has
// already replaced it.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Event {
		case "add-user":
			var payload addUserPayload
			if err := json.Unmarshal(frame.Payload, &payload); err != nil || payload.UserID == "" {
				continue
			}
			c.hub.Register(payload.UserID, c)
			c.trySend(outFrame{
				Event:   "registered",
				Payload: addUserPayload{UserID: payload.UserID},
			})
		default:
			// Unknown client frames are ignored.
		}
	}
}

// writePump serializes all writes to the connection and keeps it alive with
// pings. It exits when the send queue closes or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
