package ws

import (
	"fmt"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"pawmatch/errors"
)

type FrameType string

const (
	FrameJoin    FrameType = "join"
	FrameLeave   FrameType = "leave"
	FrameSend    FrameType = "send"
	FrameMessage FrameType = "message"
	FrameAck     FrameType = "ack"
	FrameError   FrameType = "error"
	FrameMatch   FrameType = "match"
	FrameJoined  FrameType = "joined"
	FrameLeft    FrameType = "left"
)

// Frame is the single JSON shape exchanged on the socket, in both directions.
type Frame struct {
	Type    FrameType       `json:"type"`
	MatchID domain.MatchID  `json:"matchId,omitempty"`
	TempID  string          `json:"tempId,omitempty"`
	Content string          `json:"content,omitempty"`
	Message *domain.Message `json:"message,omitempty"`
	Match   *domain.Match   `json:"match,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// ParseFrame reads a client frame. Field names are normalised the same way
// message payloads are, so a client sending chatId or text is understood.
func ParseFrame(raw map[string]any) (Frame, error) {
	kind, _ := raw["type"].(string)
	tempID, _ := raw["tempId"].(string)
	msg, err := domain.NormalizeMessage(raw)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	frame := Frame{Type: FrameType(kind), MatchID: msg.MatchID, TempID: tempID, Content: msg.Content}
	switch frame.Type {
	case FrameJoin, FrameLeave, FrameSend:
	default:
		return Frame{}, fmt.Errorf("unknown frame type %q: %w", kind, errors.ErrInvalidPayload)
	}
	if frame.MatchID == "" {
		return Frame{}, fmt.Errorf("%s frame without matchId: %w", kind, errors.ErrInvalidPayload)
	}
	return frame, nil
}

// EventFrame renders a domain event as a push frame.
func EventFrame(e event.DomainEvent) (Frame, bool) {
	switch evt := e.(type) {
	case event.MessagePosted:
		return Frame{Type: FrameMessage, MatchID: evt.Message.MatchID, Message: &evt.Message}, true
	case event.MatchCreated:
		return Frame{Type: FrameMatch, MatchID: evt.Match.ID, Match: &evt.Match}, true
	}
	return Frame{}, false
}

func errorFrame(matchID domain.MatchID, tempID string, err error) Frame {
	return Frame{Type: FrameError, MatchID: matchID, TempID: tempID, Error: err.Error(), Code: errors.Code(err)}
}
