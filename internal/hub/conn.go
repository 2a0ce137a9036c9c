package hub

import (
	"errors"
	"sync"
	"time"

	"ankachat/pkg/chat"

	"github.com/gorilla/websocket"
	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Maximum frame size accepted from a peer.
	maxMessageSize = 4096

	// Outbound queue per connection. A peer that falls this far behind
	// starts losing frames rather than stalling everyone else.
	sendQueueSize = 256
)

var (
	ErrBackpressure = errors.New("send queue full")
	ErrConnClosed   = errors.New("connection closed")
)

// Conn is one accepted socket bound to an authenticated user and a single
// channel. The session goroutine owns its lifetime; the registry only holds
// non-owning references for fan-out.
type Conn struct {
	sid       string
	ws        *websocket.Conn
	user      chat.UserInfo
	channelID uint

	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newConn(ws *websocket.Conn, user chat.UserInfo, channelID uint) *Conn {
	sid, err := nanoid.New(8)
	if err != nil {
		sid = "unknown"
	}
	return &Conn{
		sid:       sid,
		ws:        ws,
		user:      user,
		channelID: channelID,
		send:      make(chan []byte, sendQueueSize),
	}
}

func (c *Conn) User() chat.UserInfo { return c.user }

// TrySend queues a frame without blocking.
func (c *Conn) TrySend(frame []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrBackpressure
	}
}

// deliver is TrySend with hub-level policy applied: a failed delivery is
// logged and otherwise ignored so one bad recipient cannot abort a fan-out.
func (c *Conn) deliver(frame []byte) {
	if err := c.TrySend(frame); err != nil {
		log.Debug().Str("module", "hub").Str("sid", c.sid).
			Uint("user", c.user.ID).Err(err).Msg("dropping frame")
	}
}

// writePump drains the send queue onto the socket. It exits when the queue
// is closed or a write fails; either way the read loop notices the broken
// socket and runs the session teardown.
func (c *Conn) writePump() {
	for frame := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.Debug().Str("module", "hub").Str("sid", c.sid).Err(err).Msg("write error")
			return
		}
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// Close is idempotent. It stops the write pump and closes the socket.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	_ = c.ws.Close()
}
