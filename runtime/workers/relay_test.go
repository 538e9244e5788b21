package workers

import (
	"context"
	"log/slog"
	"os"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRelay_Envelope_Keeps_Event(t *testing.T) {
	req := require.New(t)
	relay := NewRedisRelay(nil, "instance-a", nil, logs.GetLoggerFromLevel(slog.LevelDebug))
	at := time.Now().UTC()

	for _, evt := range []event.DomainEvent{
		event.MessagePosted{Message: domain.Message{ID: "m-1", MatchID: match.ID, SenderID: "user-1", Content: "woof", CreatedAt: at}},
		event.MatchCreated{Match: domain.Match{ID: match.ID, PetAID: "dog-1", PetBID: "dog-2", UserAID: "user-1", UserBID: "user-2", CreatedAt: at}},
	} {
		payload, err := relay.encode(evt)
		req.NoError(err)
		decoded, origin, err := relay.decode(payload)
		req.NoError(err)
		req.Equal("instance-a", origin)
		req.Equal(evt, decoded)
	}

	_, _, err := relay.decode([]byte("not cbor"))
	req.Error(err)
}

func TestRelay_Forwards_Only_Foreign_Events(t *testing.T) {
	url := os.Getenv("PAWMATCH_REDIS_URL")
	if url == "" {
		t.Skip("PAWMATCH_REDIS_URL not set")
	}
	req := require.New(t)
	options, err := redis.ParseURL(url)
	req.NoError(err)
	client := redis.NewClient(options)
	defer client.Close()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	remoteA := make(chan event.DomainEvent, 4)
	remoteB := make(chan event.DomainEvent, 4)
	a := NewRedisRelay(client, "instance-a", remoteA, log)
	b := NewRedisRelay(client, "instance-b", remoteB, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Run(ctx) }()
	go func() { _ = b.Run(ctx) }()
	time.Sleep(200 * time.Millisecond)

	evt := event.MessagePosted{Message: domain.Message{ID: "m-1", MatchID: match.ID, SenderID: "user-1", Content: "woof", CreatedAt: time.Now().UTC()}}
	req.NoError(a.Consume(ctx, evt))

	select {
	case got := <-remoteB:
		req.Equal(evt, got)
	case <-time.After(2 * time.Second):
		req.Fail("instance-b never received the event")
	}
	select {
	case <-remoteA:
		req.Fail("instance-a received its own event")
	case <-time.After(200 * time.Millisecond):
	}
}
