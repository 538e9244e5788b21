// Package projection builds the local timeline a client renders for one chat.
// Handles optimistic sends, ordering and deduplication.
// Does not talk to the network or the UI directly.
//
// An outbound message is Pending until the server answers, then Confirmed or
// Failed. A Failed entry never survives a Reconcile: the rejected send leaves
// no trace in the state.
package projection

import (
	"context"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"slices"
	"sync"
	"time"
)

type Status int

const (
	Pending Status = iota
	Confirmed
	Failed
)

// Entry is either an optimistic message known by its TempID or a message
// the server has stored.
type Entry struct {
	Status  Status
	TempID  string
	Message domain.Message
}

type State struct {
	Entries []Entry
}

type Action interface {
	isAction()
}

type AddPending struct {
	TempID   string
	Content  string
	SenderID domain.UserID
	At       time.Time
}

type Confirm struct {
	TempID  string
	Message domain.Message
}

type Fail struct {
	TempID string
}

// Receive covers both live pushes and history pages.
type Receive struct {
	Message domain.Message
}

func (AddPending) isAction() {}
func (Confirm) isAction()    {}
func (Fail) isAction()       {}
func (Receive) isAction()    {}

// Reconcile is the only place where the timeline changes. It returns a new
// state and leaves the given one untouched.
//
// A server id appears at most once. Confirmed entries stay in CreatedAt
// order, pending ones trail behind them until the server answers.
func Reconcile(state State, action Action) State {
	entries := slices.Clone(state.Entries)
	switch a := action.(type) {
	case AddPending:
		entries = append(entries, Entry{
			Status:  Pending,
			TempID:  a.TempID,
			Message: domain.Message{SenderID: a.SenderID, Content: a.Content, CreatedAt: a.At},
		})
	case Confirm:
		pending := indexOfTemp(entries, a.TempID)
		switch {
		case pending < 0:
			entries = receive(entries, a.Message)
		case indexOfID(entries, a.Message.ID) >= 0:
			// The push beat the acknowledgement
			entries = slices.Delete(entries, pending, pending+1)
		default:
			entries[pending] = Entry{Status: Confirmed, Message: a.Message}
		}
	case Fail:
		if i := indexOfTemp(entries, a.TempID); i >= 0 {
			entries[i].Status = Failed
		}
	case Receive:
		entries = receive(entries, a.Message)
	}
	entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.Status == Failed })
	return State{Entries: entries}
}

func receive(entries []Entry, msg domain.Message) []Entry {
	if indexOfID(entries, msg.ID) >= 0 {
		return entries
	}
	at := len(entries)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Status == Pending || msg.Before(entries[i].Message) {
			at = i
			continue
		}
		break
	}
	return slices.Insert(entries, at, Entry{Status: Confirmed, Message: msg})
}

func indexOfTemp(entries []Entry, tempID string) int {
	return slices.IndexFunc(entries, func(e Entry) bool {
		return e.Status == Pending && e.TempID == tempID
	})
}

func indexOfID(entries []Entry, id domain.MessageID) int {
	return slices.IndexFunc(entries, func(e Entry) bool {
		return e.Status == Confirmed && e.Message.ID == id
	})
}

// Timeline is the reconciled view of one match, safe for concurrent use by
// the socket reader and the UI.
type Timeline struct {
	MatchID domain.MatchID
	mu      sync.RWMutex
	state   State
}

func NewTimeline(matchID domain.MatchID) *Timeline {
	return &Timeline{MatchID: matchID}
}

func (t *Timeline) apply(action Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Reconcile(t.state, action)
}

func (t *Timeline) AddPending(tempID, content string, senderID domain.UserID, at time.Time) {
	t.apply(AddPending{TempID: tempID, Content: content, SenderID: senderID, At: at})
}

func (t *Timeline) Confirm(tempID string, msg domain.Message) {
	t.apply(Confirm{TempID: tempID, Message: msg})
}

func (t *Timeline) Fail(tempID string) {
	t.apply(Fail{TempID: tempID})
}

func (t *Timeline) Receive(msg domain.Message) {
	t.apply(Receive{Message: msg})
}

// Merge folds a history page in, typically refetched after a reconnect.
func (t *Timeline) Merge(history []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, msg := range history {
		t.state = Reconcile(t.state, Receive{Message: msg})
	}
}

// Consume lets a timeline sit behind the event fanout like any other sink.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.MessagePosted); ok && evt.Message.MatchID == t.MatchID {
		t.Receive(evt.Message)
	}
	return nil
}

func (t *Timeline) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.state.Entries)
}

// Messages returns what the user sees, pending messages included with an empty id.
func (t *Timeline) Messages() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	messages := make([]domain.Message, 0, len(t.state.Entries))
	for _, e := range t.state.Entries {
		messages = append(messages, e.Message)
	}
	return messages
}
