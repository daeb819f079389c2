package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Conn is the part of a websocket connection the pumps use.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one editor connection. Frames from the peer go to OnFrame;
// frames for the peer are queued with Send or SendJSON.
type Client struct {
	Hub        *Hub
	Conn       Conn
	UserID     string // empty for anonymous connections
	SessionKey string
	OnFrame    func(raw []byte)

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(hub *Hub, conn Conn, userID, sessionKey string) *Client {
	return &Client{
		Hub:        hub,
		Conn:       conn,
		UserID:     userID,
		SessionKey: sessionKey,
		send:       make(chan []byte, sendBuffer),
	}
}

// Send queues a frame. It reports false when the client is gone or its
// buffer is full; a full buffer closes the client.
func (c *Client) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		c.closeLocked()
		return false
	}
}

func (c *Client) SendJSON(v interface{}) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.Send(payload)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump feeds peer frames to OnFrame until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.close()
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.logger.Warn("WS", "Connection closed unexpectedly", map[string]interface{}{
					"error":       err.Error(),
					"session_key": c.SessionKey,
				})
			}
			return
		}
		if c.OnFrame != nil {
			c.OnFrame(raw)
		}
	}
}

// writePump writes queued frames, one websocket message each, and pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
