package ws

import (
	"pawmatch/domain"
	"pawmatch/domain/event"
	"pawmatch/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	cases := []struct {
		name     string
		raw      map[string]any
		expected Frame
	}{
		{
			name:     "send with canonical fields",
			raw:      map[string]any{"type": "send", "matchId": "match-1", "tempId": "tmp-1", "content": "Hi Luna"},
			expected: Frame{Type: FrameSend, MatchID: "match-1", TempID: "tmp-1", Content: "Hi Luna"},
		},
		{
			name:     "send with chatId and text aliases",
			raw:      map[string]any{"type": "send", "chatId": "match-1", "tempId": "tmp-2", "text": "Walk tomorrow?"},
			expected: Frame{Type: FrameSend, MatchID: "match-1", TempID: "tmp-2", Content: "Walk tomorrow?"},
		},
		{
			name:     "join with snake case match id",
			raw:      map[string]any{"type": "join", "match_id": "match-2"},
			expected: Frame{Type: FrameJoin, MatchID: "match-2"},
		},
		{
			name:     "leave",
			raw:      map[string]any{"type": "leave", "matchId": "match-2"},
			expected: Frame{Type: FrameLeave, MatchID: "match-2"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := require.New(t)
			frame, err := ParseFrame(c.raw)
			req.NoError(err)
			req.Equal(c.expected, frame)
		})
	}
}

func TestParseFrame_Rejects_Bad_Frames(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown type":         {"type": "superlike", "matchId": "match-1"},
		"server only type":     {"type": "message", "matchId": "match-1"},
		"missing type":         {"matchId": "match-1"},
		"missing match id":     {"type": "send", "content": "Hi"},
		"malformed created at": {"type": "send", "matchId": "match-1", "createdAt": "yesterday"},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			_, err := ParseFrame(raw)
			req.ErrorIs(err, errors.ErrInvalidPayload)
			req.Equal("InvalidArgument", errors.Code(err))
		})
	}
}

type unknownEvent struct{}

func (unknownEvent) MatchID() domain.MatchID { return "match-1" }
func (unknownEvent) Type() event.Type        { return "typing" }
func (unknownEvent) OccurredAt() time.Time   { return time.Time{} }

func TestEventFrame(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := domain.Message{ID: "m1", MatchID: "match-1", SenderID: "user-1", Content: "Hi", CreatedAt: at}
	match := domain.Match{ID: "match-1", PetAID: "dog-1", PetBID: "dog-2", UserAID: "user-1", UserBID: "user-2", CreatedAt: at}

	frame, ok := EventFrame(event.MessagePosted{Message: msg})
	req.True(ok)
	req.Equal(FrameMessage, frame.Type)
	req.Equal(domain.MatchID("match-1"), frame.MatchID)
	req.Equal(msg, *frame.Message)
	req.Nil(frame.Match)

	frame, ok = EventFrame(event.MatchCreated{Match: match})
	req.True(ok)
	req.Equal(FrameMatch, frame.Type)
	req.Equal(match, *frame.Match)
	req.Nil(frame.Message)

	_, ok = EventFrame(unknownEvent{})
	req.False(ok)
}

func TestErrorFrame_Carries_Code(t *testing.T) {
	req := require.New(t)

	frame := errorFrame("match-1", "tmp-1", errors.ErrForbidden)

	req.Equal(FrameError, frame.Type)
	req.Equal("tmp-1", frame.TempID)
	req.Equal("Forbidden", frame.Code)
}
