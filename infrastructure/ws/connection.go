package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"pawmatch/errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 30 * time.Second

	// Must be less than pongWait
	pingPeriod = 25 * time.Second

	maxFrameSize = 8 * 1024
)

// Connection is one authenticated socket. Pushes go through a bounded
// buffer drained by writePump, so a slow peer never blocks the fanout.
type Connection struct {
	id     string
	userID domain.UserID
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	log    *slog.Logger
}

func NewConnection(log *slog.Logger, conn *websocket.Conn, userID domain.UserID, bufferSize int) *Connection {
	return &Connection{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		done:   make(chan struct{}),
		log:    log,
	}
}

func (c *Connection) ConnID() string { return c.id }

func (c *Connection) UserID() domain.UserID { return c.userID }

func (c *Connection) Alive() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Consume enqueues the event for this peer. A full buffer drops it with ErrBackpressure.
func (c *Connection) Consume(_ context.Context, e event.DomainEvent) error {
	frame, ok := EventFrame(e)
	if !ok {
		return nil
	}
	return c.enqueue(frame)
}

func (c *Connection) enqueue(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errors.ErrConnectionGone
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.ErrConnectionGone
	default:
		return errors.ErrBackpressure
	}
}

func (c *Connection) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump hands every client frame to onFrame until the peer goes away.
func (c *Connection) readPump(onFrame func(raw map[string]any)) {
	defer c.Close()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var raw map[string]any
		if err := c.conn.ReadJSON(&raw); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("WebSocket read failed", "conn_id", c.id, "error", err)
			}
			return
		}
		onFrame(raw)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("WebSocket write failed", "conn_id", c.id, "error", err)
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
