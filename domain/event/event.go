package event

import (
	"pawmatch/domain"
	"time"
)

type Type string

const (
	MessagePostedType Type = "message"
	MatchCreatedType  Type = "match"
)

// DomainEvent is what the fanout delivers to sinks.
type DomainEvent interface {
	MatchID() domain.MatchID
	Type() Type
	OccurredAt() time.Time
}

// MessagePosted carries a message that is already persisted.
type MessagePosted struct {
	Message domain.Message
}

func (m MessagePosted) MatchID() domain.MatchID { return m.Message.MatchID }
func (m MessagePosted) Type() Type              { return MessagePostedType }
func (m MessagePosted) OccurredAt() time.Time   { return m.Message.CreatedAt }

// MatchCreated is addressed to both owners rather than to a chat channel,
// nobody has joined the channel of a match that did not exist a moment ago.
type MatchCreated struct {
	Match domain.Match
}

func (m MatchCreated) MatchID() domain.MatchID { return m.Match.ID }
func (m MatchCreated) Type() Type              { return MatchCreatedType }
func (m MatchCreated) OccurredAt() time.Time   { return m.Match.CreatedAt }
