//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Connection is one live realtime connection. Its identity is fixed when the
// transport authenticates it and never changes afterwards.
type Connection interface {
	EventSink
	ConnID() string
	UserID() domain.UserID
	Alive() bool
}

// IRegistry indexes live connections by match channel and by user.
// It is a delivery index only, never a source of truth for match existence.
type IRegistry interface {
	Attach(conn Connection)
	Join(match domain.Match, conn Connection) error
	Leave(matchID domain.MatchID, connID string)
	MembersOf(matchID domain.MatchID) []Connection
	ConnectionsOf(userID domain.UserID) []Connection
	Disconnect(connID string)
	Prune() int
	Stats() (channels, connections int)
}

// EventPublisher hands a domain event to the fanout pipeline.
type EventPublisher interface {
	Publish(ctx context.Context, e event.DomainEvent)
}

// QuotaService enforces subscription tier limits that gate the matching core.
type QuotaService interface {
	ConsumeSwipe(ctx context.Context, userID domain.UserID) error
	RefundSwipe(ctx context.Context, userID domain.UserID) error
	CheckPetQuota(ctx context.Context, userID domain.UserID, current int) error
}

type Moderator interface {
	Censor(content string) (string, []string)
}
