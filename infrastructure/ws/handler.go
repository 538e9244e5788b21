// Package ws is the realtime transport: one authenticated websocket per
// client, carrying join/leave/send frames in and pushes out.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"pawmatch/auth"
	"pawmatch/services"
	"time"

	"github.com/gorilla/websocket"
)

type Handler struct {
	log        *slog.Logger
	chat       services.IChatService
	upgrader   websocket.Upgrader
	bufferSize int
	opTimeout  time.Duration
}

// NewHandler serves the websocket endpoint. The route must sit behind
// auth.Middleware, the identity of a connection is the token's user.
func NewHandler(log *slog.Logger, chat services.IChatService, bufferSize int, opTimeout time.Duration, checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		log:  log,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		bufferSize: bufferSize,
		opTimeout:  opTimeout,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFrom(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("WebSocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	conn := NewConnection(h.log, socket, userID, h.bufferSize)
	h.chat.Connect(conn)
	h.log.Info("WebSocket connected", "conn_id", conn.ConnID(), "user_id", userID, "remote", r.RemoteAddr)

	go conn.writePump()
	go func() {
		conn.readPump(func(raw map[string]any) { h.handle(conn, raw) })
		h.chat.Disconnect(conn.ConnID())
		h.log.Info("WebSocket disconnected", "conn_id", conn.ConnID(), "user_id", userID)
	}()
}

func (h *Handler) handle(conn *Connection, raw map[string]any) {
	frame, err := ParseFrame(raw)
	if err != nil {
		tempID, _ := raw["tempId"].(string)
		h.reply(conn, errorFrame("", tempID, err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opTimeout)
	defer cancel()

	switch frame.Type {
	case FrameJoin:
		if err = h.chat.Join(ctx, frame.MatchID, conn); err != nil {
			h.reply(conn, errorFrame(frame.MatchID, "", err))
			return
		}
		h.reply(conn, Frame{Type: FrameJoined, MatchID: frame.MatchID})
	case FrameLeave:
		h.chat.Leave(frame.MatchID, conn.ConnID())
		h.reply(conn, Frame{Type: FrameLeft, MatchID: frame.MatchID})
	case FrameSend:
		msg, err := h.chat.SendMessage(ctx, frame.MatchID, conn.UserID(), frame.Content)
		if err != nil {
			h.reply(conn, errorFrame(frame.MatchID, frame.TempID, err))
			return
		}
		h.reply(conn, Frame{Type: FrameAck, MatchID: frame.MatchID, TempID: frame.TempID, Message: &msg})
	}
}

func (h *Handler) reply(conn *Connection, frame Frame) {
	if err := conn.enqueue(frame); err != nil {
		h.log.Debug("Reply dropped", "conn_id", conn.ConnID(), "type", frame.Type, "error", err)
	}
}
