package ws

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"pawmatch/errors"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func bufferedConnection(size int) *Connection {
	return &Connection{
		id:     "conn-1",
		userID: "user-1",
		send:   make(chan []byte, size),
		done:   make(chan struct{}),
		log:    logs.GetLoggerFromLevel(slog.LevelDebug),
	}
}

func posted(id string) event.MessagePosted {
	return event.MessagePosted{Message: domain.Message{ID: domain.MessageID(id), MatchID: "match-1", SenderID: "user-2", Content: "woof"}}
}

func TestConnection_Full_Buffer_Drops_With_Backpressure(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	conn := bufferedConnection(2)

	// Given a peer that reads nothing
	req.NoError(conn.Consume(ctx, posted("m1")))
	req.NoError(conn.Consume(ctx, posted("m2")))

	// When a third push arrives
	err := conn.Consume(ctx, posted("m3"))

	// Then it is dropped and the buffered pushes are untouched
	req.ErrorIs(err, errors.ErrBackpressure)
	req.Len(conn.send, 2)
	req.Contains(string(<-conn.send), `"id":"m1"`)
	req.True(conn.Alive())
}

func TestConnection_Closed_Refuses_Pushes(t *testing.T) {
	req := require.New(t)
	conn := bufferedConnection(2)

	close(conn.done)

	req.False(conn.Alive())
	req.ErrorIs(conn.Consume(context.Background(), posted("m1")), errors.ErrConnectionGone)
	req.Empty(conn.send)
}

func TestConnection_Ignores_Events_Without_Frame(t *testing.T) {
	req := require.New(t)
	conn := bufferedConnection(1)

	req.NoError(conn.Consume(context.Background(), unknownEvent{}))
	req.Empty(conn.send)
}

// Both pumps over a real socket: pushes reach the peer, client frames reach
// the callback, and the connection dies with the peer.
func TestConnection_Pumps(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	upgrader := websocket.Upgrader{}
	connected := make(chan *Connection, 1)
	frames := make(chan map[string]any, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(log, socket, "user-1", 4)
		connected <- conn
		go conn.writePump()
		conn.readPump(func(raw map[string]any) { frames <- raw })
	}))
	defer srv.Close()

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	req.NoError(err)
	conn := <-connected

	// When the server pushes a message
	req.NoError(conn.Consume(context.Background(), posted("m1")))

	// Then the peer reads it as a message frame
	var frame Frame
	req.NoError(peer.SetReadDeadline(time.Now().Add(time.Second)))
	req.NoError(peer.ReadJSON(&frame))
	req.Equal(FrameMessage, frame.Type)
	req.Equal(domain.MessageID("m1"), frame.Message.ID)

	// And a client frame reaches the callback
	req.NoError(peer.WriteJSON(map[string]any{"type": "join", "matchId": "match-1"}))
	select {
	case raw := <-frames:
		req.Equal("join", raw["type"])
	case <-time.After(time.Second):
		req.FailNow("client frame never read")
	}

	// And the connection is gone once the peer leaves
	req.NoError(peer.Close())
	req.Eventually(func() bool { return !conn.Alive() }, time.Second, 10*time.Millisecond)
	req.ErrorIs(conn.Consume(context.Background(), posted("m2")), errors.ErrConnectionGone)
}
