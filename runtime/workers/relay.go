package workers

import (
	"context"
	"fmt"
	"log/slog"
	"pawmatch/domain"
	"pawmatch/domain/event"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

const relayChannelPrefix = "pawmatch:match:"

// envelope is the wire form of a relayed event.
type envelope struct {
	Origin  string          `cbor:"1,keyasint"`
	Type    event.Type      `cbor:"2,keyasint"`
	Message *domain.Message `cbor:"3,keyasint,omitempty"`
	Match   *domain.Match   `cbor:"4,keyasint,omitempty"`
}

var relayEncMode = func() cbor.EncMode {
	mode, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// RedisRelay bridges the fanout of several server instances. As a permanent
// sink it publishes every local event; as a worker it subscribes to all match
// channels and hands events published by other instances to the local fanout.
type RedisRelay struct {
	redis      *redis.Client
	instanceID string
	remote     chan<- event.DomainEvent
	log        *slog.Logger
}

func NewRedisRelay(client *redis.Client, instanceID string, remote chan<- event.DomainEvent, log *slog.Logger) *RedisRelay {
	return &RedisRelay{redis: client, instanceID: instanceID, remote: remote, log: log}
}

func (r *RedisRelay) Consume(ctx context.Context, e event.DomainEvent) error {
	payload, err := r.encode(e)
	if err != nil {
		return err
	}
	channel := relayChannelPrefix + string(e.MatchID())
	if err = r.redis.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.redis.PSubscribe(ctx, relayChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s*: %w", relayChannelPrefix, err)
	}
	r.log.Info("Relay subscribed", "pattern", relayChannelPrefix+"*", "instance_id", r.instanceID)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("relay subscription closed")
			}
			if !strings.HasPrefix(msg.Channel, relayChannelPrefix) {
				continue
			}
			evt, origin, err := r.decode([]byte(msg.Payload))
			if err != nil {
				r.log.Warn("Dropping undecodable relay payload", "channel", msg.Channel, "error", err)
				continue
			}
			if origin == r.instanceID {
				continue
			}
			select {
			case r.remote <- evt:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (r *RedisRelay) encode(e event.DomainEvent) ([]byte, error) {
	env := envelope{Origin: r.instanceID, Type: e.Type()}
	switch evt := e.(type) {
	case event.MessagePosted:
		env.Message = &evt.Message
	case event.MatchCreated:
		env.Match = &evt.Match
	default:
		return nil, fmt.Errorf("relay cannot encode %T", e)
	}
	return relayEncMode.Marshal(env)
}

func (r *RedisRelay) decode(payload []byte) (event.DomainEvent, string, error) {
	var env envelope
	if err := cbor.Unmarshal(payload, &env); err != nil {
		return nil, "", err
	}
	switch {
	case env.Type == event.MessagePostedType && env.Message != nil:
		return event.MessagePosted{Message: *env.Message}, env.Origin, nil
	case env.Type == event.MatchCreatedType && env.Match != nil:
		return event.MatchCreated{Match: *env.Match}, env.Origin, nil
	default:
		return nil, env.Origin, fmt.Errorf("unknown relay event %q", env.Type)
	}
}
