package workers

import (
	"context"
	"log/slog"
	"pawmatch/contract"
	"pawmatch/domain/event"
	"time"
)

// EventFanout delivers domain events to the live connections they concern.
//
// Delivery is best effort and at most once: a connection that does not take
// the event within sinkTimeout misses it and is expected to refetch history.
// A single EventFanout consumes the event streams, so events of one match are
// delivered in the order they were published.
//
// Local events also go to the permanent sinks (the cross instance relay).
// Remote events, already relayed by another instance, only reach local connections.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	local          <-chan event.DomainEvent
	remote         <-chan event.DomainEvent
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	local, remote <-chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:         log,
		registry:    registry,
		local:       local,
		remote:      remote,
		sinkTimeout: sinkTimeout,
	}
}

// Add registers sinks that receive every local event. Call before Run.
func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.permanentSinks = append(w.permanentSinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt := <-w.local:
			w.Fanout(ctx, evt)
			for _, sink := range w.permanentSinks {
				w.consume(ctx, sink, evt)
			}
		case evt := <-w.remote:
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout hands evt to every local connection it is addressed to.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, conn := range w.recipients(evt) {
		w.consume(ctx, conn, evt)
	}
}

// recipients resolves the channel members of a message, or both owners for a new match.
func (w *EventFanout) recipients(evt event.DomainEvent) []contract.Connection {
	switch e := evt.(type) {
	case event.MatchCreated:
		seen := make(map[string]struct{})
		var conns []contract.Connection
		for _, user := range e.Match.Participants() {
			for _, conn := range w.registry.ConnectionsOf(user) {
				if _, ok := seen[conn.ConnID()]; ok {
					continue
				}
				seen[conn.ConnID()] = struct{}{}
				conns = append(conns, conn)
			}
		}
		return conns
	default:
		return w.registry.MembersOf(evt.MatchID())
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Debug("Delivery dropped", "type", evt.Type(), "match_id", evt.MatchID(), "error", err)
	}
}
