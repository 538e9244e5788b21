package repositories

import (
	"context"
	"log/slog"
	"pawmatch/domain"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	matchID := domain.MatchID("match-1")
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	messages := []domain.Message{
		{ID: "m-1", MatchID: matchID, SenderID: "alice", Content: content, CreatedAt: at},
		{ID: "m-2", MatchID: matchID, SenderID: "bob", Content: content, CreatedAt: at.Add(1 * time.Minute)},
		{ID: "m-3", MatchID: matchID, SenderID: "alice", Content: content, CreatedAt: at.Add(2 * time.Minute)},
	}

	// Stored out of order on purpose
	for _, i := range []int{2, 0, 1} {
		req.NoError(repository.StoreMessage(ctx, messages[i]))
	}

	fetched, cursor, err := repository.GetMessages(ctx, matchID, nil, 0)
	req.NoError(err)
	req.Nil(cursor)
	req.Equal(messages, fetched)
}

func Test_Get_Messages_Paginates_Forward(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	matchID := domain.MatchID("match-1")
	at := time.Now().UTC()
	var messages []domain.Message
	for i, id := range []domain.MessageID{"m-1", "m-2", "m-3", "m-4", "m-5"} {
		message := domain.Message{ID: id, MatchID: matchID, SenderID: "alice", Content: "woof", CreatedAt: at.Add(time.Duration(i) * time.Second)}
		messages = append(messages, message)
		req.NoError(repository.StoreMessage(ctx, message))
	}

	// When reading two by two
	first, cursor, err := repository.GetMessages(ctx, matchID, nil, 2)
	req.NoError(err)
	req.NotNil(cursor)
	second, cursor, err := repository.GetMessages(ctx, matchID, cursor, 2)
	req.NoError(err)
	req.NotNil(cursor)
	third, cursor, err := repository.GetMessages(ctx, matchID, cursor, 2)
	req.NoError(err)

	// Then every message comes back exactly once, in order
	req.Nil(cursor)
	req.Equal(messages[:2], first)
	req.Equal(messages[2:4], second)
	req.Equal(messages[4:], third)
}

func Test_Get_Messages_Is_Scoped_To_Match(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(ctx, domain.Message{ID: "m-1", MatchID: "match-1", SenderID: "alice", Content: "hi", CreatedAt: at}))
	req.NoError(repository.StoreMessage(ctx, domain.Message{ID: "m-2", MatchID: "match-10", SenderID: "bob", Content: "hey", CreatedAt: at}))

	fetched, _, err := repository.GetMessages(ctx, "match-1", nil, 10)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal(domain.MessageID("m-1"), fetched[0].ID)
}

func Test_Same_Nanosecond_Messages_Are_Kept(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(ctx, domain.Message{ID: "b", MatchID: "match-1", SenderID: "alice", Content: "1", CreatedAt: at}))
	req.NoError(repository.StoreMessage(ctx, domain.Message{ID: "a", MatchID: "match-1", SenderID: "bob", Content: "2", CreatedAt: at}))

	fetched, _, err := repository.GetMessages(ctx, "match-1", nil, 10)
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal(domain.MessageID("a"), fetched[0].ID)
}
