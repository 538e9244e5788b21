package test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"pawmatch/client"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/internal"
	"pawmatch/projection"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const password = "ComplexPass123!"

func startServer(t *testing.T) string {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	app, err := internal.New(ctx, internal.Config{
		StorageDriver:        internal.DriverBadger,
		BadgerInMemory:       true,
		JWTSecret:            "scenario-secret",
		AuthTokenDuration:    time.Hour,
		AllowedOrigins:       "*",
		BufferSize:           64,
		ConnectionBufferSize: 16,
		SinkTimeout:          time.Second,
		RequestTimeout:       time.Second,
		HeartbeatInterval:    50 * time.Millisecond,
		MaxContentLength:     500,
		LimitMessages:        2,
		LimitPets:            50,
		CharReplacement:      "*",
	}, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	app.Start(ctx)
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		app.Close()
	})
	return srv.URL
}

func newOwner(t *testing.T, ctx context.Context, url, email, petName string) (*client.Client, domain.Pet) {
	req := require.New(t)
	c := client.New(logs.GetLoggerFromLevel(slog.LevelDebug), url)
	req.NoError(c.Register(ctx, email, password))
	pet, err := c.CreatePet(ctx, petName, "dog")
	req.NoError(err)
	t.Cleanup(c.Close)
	return c, pet
}

func contents(timeline *projection.Timeline) []string {
	return lo.Map(timeline.Messages(), func(m domain.Message, _ int) string { return m.Content })
}

func confirmed(timeline *projection.Timeline) bool {
	return lo.EveryBy(timeline.Entries(), func(e projection.Entry) bool { return e.Status == projection.Confirmed })
}

// dog-1 and dog-2 like each other, chat, and dog-2's owner drops off and
// comes back to find every message exactly once.
func Test_Scenario_Match_Chat_Reconnect(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	url := startServer(t)

	alice, dog1 := newOwner(t, ctx, url, "alice@example.com", "dog-1")
	bob, dog2 := newOwner(t, ctx, url, "bob@example.com", "dog-2")

	// Given alice is online before the match exists
	req.NoError(alice.Connect(ctx))

	// When the dogs like each other
	first, err := alice.Like(ctx, dog1.ID, dog2.ID)
	req.NoError(err)
	req.False(first.IsMatch)
	second, err := bob.Like(ctx, dog2.ID, dog1.ID)
	req.NoError(err)
	req.True(second.IsMatch)
	matchID := second.Match.ID

	// Then alice is told about the match live
	select {
	case pushed := <-alice.MatchCreated():
		req.Equal(matchID, pushed.ID)
	case <-time.After(5 * time.Second):
		req.Fail("no match push received")
	}

	// And both can chat in the match channel
	aliceChat, err := alice.Join(ctx, matchID)
	req.NoError(err)
	req.NoError(bob.Connect(ctx))
	bobChat, err := bob.Join(ctx, matchID)
	req.NoError(err)

	_, err = alice.Send(matchID, "Hello from dog-1")
	req.NoError(err)
	req.Eventually(func() bool {
		return len(bobChat.Messages()) == 1 && len(aliceChat.Messages()) == 1 && confirmed(aliceChat)
	}, 5*time.Second, 10*time.Millisecond)
	req.Equal(aliceChat.Messages()[0].ID, bobChat.Messages()[0].ID)

	// When bob drops and alice keeps talking
	bob.Close()
	<-bob.Done()
	for _, content := range []string{"Are you there?", "Walk at 6?"} {
		_, err = alice.SendREST(ctx, matchID, content)
		req.NoError(err)
	}

	// Then bob catches up once reconnected, with no duplicate
	req.NoError(bob.Reconnect(ctx))
	req.Equal([]string{"Hello from dog-1", "Are you there?", "Walk at 6?"}, contents(bobChat))

	// And live delivery resumes on the new socket
	_, err = bob.Send(matchID, "Yes! See you")
	req.NoError(err)
	req.Eventually(func() bool {
		return len(aliceChat.Messages()) == 4 && confirmed(aliceChat) && confirmed(bobChat)
	}, 5*time.Second, 10*time.Millisecond)
	req.Equal(contents(aliceChat), contents(bobChat))
	req.Equal(
		lo.Map(aliceChat.Messages(), func(m domain.Message, _ int) domain.MessageID { return m.ID }),
		lo.Map(bobChat.Messages(), func(m domain.Message, _ int) domain.MessageID { return m.ID }),
	)
}

func Test_Scenario_Outsider_Cannot_Join(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	url := startServer(t)

	alice, dog1 := newOwner(t, ctx, url, "alice@example.com", "dog-1")
	bob, dog2 := newOwner(t, ctx, url, "bob@example.com", "dog-2")
	eve, _ := newOwner(t, ctx, url, "eve@example.com", "dog-3")
	_, err := alice.Like(ctx, dog1.ID, dog2.ID)
	req.NoError(err)
	result, err := bob.Like(ctx, dog2.ID, dog1.ID)
	req.NoError(err)

	req.NoError(eve.Connect(ctx))
	_, err = eve.Join(ctx, result.Match.ID)

	req.ErrorIs(err, errors.ErrForbidden)
	_, err = eve.SendREST(ctx, result.Match.ID, "let me in")
	req.ErrorIs(err, errors.ErrForbidden)
	history, err := alice.History(ctx, result.Match.ID)
	req.NoError(err)
	req.Empty(history)
}

func Test_Scenario_Rejected_Send_Leaves_No_Pending(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	url := startServer(t)

	alice, dog1 := newOwner(t, ctx, url, "alice@example.com", "dog-1")
	bob, dog2 := newOwner(t, ctx, url, "bob@example.com", "dog-2")
	_, err := alice.Like(ctx, dog1.ID, dog2.ID)
	req.NoError(err)
	result, err := bob.Like(ctx, dog2.ID, dog1.ID)
	req.NoError(err)

	req.NoError(alice.Connect(ctx))
	chat, err := alice.Join(ctx, result.Match.ID)
	req.NoError(err)

	// Whitespace only content is refused by the server
	_, err = alice.Send(result.Match.ID, "   ")
	req.NoError(err)

	req.Eventually(func() bool { return len(chat.Entries()) == 0 }, 5*time.Second, 10*time.Millisecond)
}
