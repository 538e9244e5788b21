// Package runtime owns the realtime side of the chat: the channel registry,
// the message router and the workers that deliver events.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"pawmatch/contract"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"pawmatch/errors"
	"pawmatch/repositories"
	"pawmatch/runtime/workers"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type RouterConfig struct {
	BufferSize       int
	SinkTimeout      time.Duration
	MaxContentLength int
	LimitMessages    int
}

// clockIdle is how long a match clock nobody holds survives its last send.
const clockIdle = time.Minute

// matchClock serialises sends of one match and remembers the last timestamp it handed out.
type matchClock struct {
	mu   sync.Mutex
	last time.Time
	refs int // guarded by Router.mu
}

// Router validates, persists and then publishes chat messages. A message is
// published only after it is stored, and publication order within a match
// equals CreatedAt order.
type Router struct {
	log            *slog.Logger
	cfg            RouterConfig
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	matches        repositories.IMatchRepository
	messages       repositories.IMessageRepository
	moderator      contract.Moderator
	events         chan event.DomainEvent
	remote         chan event.DomainEvent
	permanentSinks []contract.EventSink
	workers        []contract.Worker

	mu        sync.Mutex
	clocks    map[domain.MatchID]*matchClock
	lastSweep time.Time

	now   func() time.Time
	newID func() domain.MessageID
}

func NewRouter(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	matches repositories.IMatchRepository, messages repositories.IMessageRepository,
	moderator contract.Moderator, cfg RouterConfig) *Router {
	return &Router{
		log:        log,
		cfg:        cfg,
		supervisor: supervisor,
		registry:   registry,
		matches:    matches,
		messages:   messages,
		moderator:  moderator,
		events:     make(chan event.DomainEvent, cfg.BufferSize),
		remote:     make(chan event.DomainEvent, cfg.BufferSize),
		clocks:     make(map[domain.MatchID]*matchClock),
		now:        time.Now,
		newID:      func() domain.MessageID { return domain.MessageID(uuid.NewString()) },
	}
}

// Add registers sinks receiving every locally published event.
func (r *Router) Add(sinks ...contract.EventSink) {
	r.permanentSinks = append(r.permanentSinks, sinks...)
}

// AddWorkers registers side workers supervised along with the fanout.
func (r *Router) AddWorkers(w ...contract.Worker) {
	r.workers = append(r.workers, w...)
}

// Remote is where events relayed from other instances are injected.
func (r *Router) Remote() chan<- event.DomainEvent {
	return r.remote
}

// Start launches the fanout and the side workers under supervision and returns immediately.
func (r *Router) Start(ctx context.Context) {
	fanout := workers.NewEventFanout(r.log, r.registry, r.events, r.remote, r.cfg.SinkTimeout).
		Add(r.permanentSinks...)
	r.supervisor.Add(fanout).Add(r.workers...)
	r.log.Info("Starting router and supervised workers", "workers", len(r.workers)+1)
	go r.supervisor.Run(ctx)
}

func (r *Router) Stop() {
	r.log.Info("Requesting router shutdown")
	r.supervisor.Stop()
}

// SendMessage stores a message from senderID and queues it for delivery.
// The returned message is the persisted one, delivery happens asynchronously.
func (r *Router) SendMessage(ctx context.Context, matchID domain.MatchID, senderID domain.UserID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, fmt.Errorf("empty content: %w", errors.ErrInvalidArgument)
	}
	if r.cfg.MaxContentLength > 0 && utf8.RuneCountInString(content) > r.cfg.MaxContentLength {
		return domain.Message{}, fmt.Errorf("content longer than %d characters: %w", r.cfg.MaxContentLength, errors.ErrInvalidArgument)
	}

	match, err := r.participantMatch(ctx, matchID, senderID)
	if err != nil {
		return domain.Message{}, err
	}

	if censored, words := r.moderator.Censor(content); len(words) > 0 {
		r.log.Debug("Message censored", "match_id", matchID, "sender_id", senderID, "words", len(words))
		content = censored
	}

	clock := r.clock(match.ID)
	defer r.release(clock)
	clock.mu.Lock()
	defer clock.mu.Unlock()

	createdAt := r.now().UTC()
	if !createdAt.After(clock.last) {
		createdAt = clock.last.Add(time.Nanosecond)
	}
	msg := domain.Message{
		ID:        r.newID(),
		MatchID:   match.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: createdAt,
	}
	if err = r.messages.StoreMessage(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("store message in match %s: %w", match.ID, err)
	}
	clock.last = createdAt

	// Still under the match lock so queue order stays CreatedAt order.
	r.Publish(ctx, event.MessagePosted{Message: msg})
	return msg, nil
}

// GetMessages returns the history of a match in ascending order.
func (r *Router) GetMessages(ctx context.Context, matchID domain.MatchID, callerID domain.UserID, cursor *string, limit int) ([]domain.Message, *string, error) {
	if _, err := r.participantMatch(ctx, matchID, callerID); err != nil {
		return nil, nil, err
	}
	if limit <= 0 || (r.cfg.LimitMessages > 0 && limit > r.cfg.LimitMessages) {
		limit = r.cfg.LimitMessages
	}
	return r.messages.GetMessages(ctx, matchID, cursor, limit)
}

// Publish queues an event for fanout and never waits. The event is already
// durable when it gets here, so it outlives the caller's context: a sender
// going away does not cost the other members their push. A full queue drops
// the event and members catch up from history.
func (r *Router) Publish(_ context.Context, e event.DomainEvent) {
	select {
	case r.events <- e:
	default:
		r.log.Warn("Fanout queue full, event dropped", "type", e.Type(), "match_id", e.MatchID(), "capacity", cap(r.events))
	}
}

// Connect makes a connection reachable for user level notifications.
func (r *Router) Connect(conn contract.Connection) {
	r.registry.Attach(conn)
}

// Join subscribes conn to the channel of a match its user takes part in.
func (r *Router) Join(ctx context.Context, matchID domain.MatchID, conn contract.Connection) error {
	match, err := r.participantMatch(ctx, matchID, conn.UserID())
	if err != nil {
		return err
	}
	return r.registry.Join(match, conn)
}

func (r *Router) Leave(matchID domain.MatchID, connID string) {
	r.registry.Leave(matchID, connID)
}

func (r *Router) Disconnect(connID string) {
	r.registry.Disconnect(connID)
}

func (r *Router) participantMatch(ctx context.Context, matchID domain.MatchID, userID domain.UserID) (domain.Match, error) {
	match, err := r.matches.GetMatch(ctx, matchID)
	if err != nil {
		return domain.Match{}, err
	}
	if !match.HasUser(userID) {
		return domain.Match{}, fmt.Errorf("user %s in match %s: %w", userID, matchID, errors.ErrForbidden)
	}
	return match, nil
}

// clock hands out the clock of a match, to be given back with release.
func (r *Router) clock(matchID domain.MatchID) *matchClock {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepClocks()
	c, ok := r.clocks[matchID]
	if !ok {
		c = &matchClock{}
		r.clocks[matchID] = c
	}
	c.refs++
	return c
}

func (r *Router) release(c *matchClock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.refs--
}

// sweepClocks drops clocks nobody holds once their last send is clockIdle old.
// A clock created afterwards starts from the wall clock, already past anything
// the dropped one handed out. Runs at most once per clockIdle. Caller holds r.mu.
func (r *Router) sweepClocks() {
	now := r.now()
	if now.Sub(r.lastSweep) < clockIdle {
		return
	}
	r.lastSweep = now
	for id, c := range r.clocks {
		if c.refs == 0 && now.Sub(c.last) > clockIdle {
			delete(r.clocks, id)
		}
	}
}
