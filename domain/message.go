package domain

import (
	"sort"
	"time"
)

type MessageID string

// Message represents an immutable chat event belonging to exactly one Match.
type Message struct {
	ID        MessageID `json:"id"`
	MatchID   MatchID   `json:"matchId"`
	SenderID  UserID    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Before orders messages by CreatedAt, ties broken by ID.
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}

func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Before(messages[j])
	})
}
