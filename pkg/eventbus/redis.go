package eventbus

import (
	"context"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/hestia/pkg/errors"
	"github.com/kart-io/hestia/pkg/utils/json"
)

// RedisBus fans events out to local listeners and to Redis pub/sub on
// channel <prefix><event type>. Events published by other processes are
// delivered to local listeners once Forward is running.
type RedisBus struct {
	local  *LocalBus
	client goredis.UniversalClient
	prefix string
	origin string

	mu     sync.Mutex
	pubsub *goredis.PubSub
}

var _ Bus = (*RedisBus)(nil)

// NewRedisBus wraps client. The caller keeps ownership of client.
func NewRedisBus(client goredis.UniversalClient, prefix string, dispatcher Dispatcher) *RedisBus {
	return &RedisBus{
		local:  NewLocalBus(dispatcher),
		client: client,
		prefix: prefix,
		origin: ulid.Make().String(),
	}
}

// Listen implements Bus.
func (b *RedisBus) Listen(eventType string, h Handler) {
	b.local.Listen(eventType, h)
}

// Publish implements Bus. Local listeners are notified even when the
// Redis publish fails.
func (b *RedisBus) Publish(ctx context.Context, eventType string, data map[string]any) error {
	if b.local.closed.Load() {
		return errors.ErrBusClosed
	}

	ev := NewEvent(eventType, data)
	ev.Origin = b.origin
	b.local.dispatch(ctx, ev)

	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.ErrPublishFailed.WithCause(err)
	}
	if err := b.client.Publish(ctx, b.prefix+eventType, payload).Err(); err != nil {
		return errors.ErrPublishFailed.WithMessagef("publish %s", eventType).WithCause(err)
	}
	return nil
}

// Forward subscribes to every channel under the prefix and delivers remote
// events to local listeners until ctx is done or the bus is closed.
func (b *RedisBus) Forward(ctx context.Context) error {
	ps := b.client.PSubscribe(ctx, b.prefix+"*")
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return errors.ErrPublishFailed.WithMessage("subscribe to event channels").WithCause(err)
	}

	b.mu.Lock()
	if b.local.closed.Load() {
		b.mu.Unlock()
		_ = ps.Close()
		return errors.ErrBusClosed
	}
	b.pubsub = ps
	b.mu.Unlock()

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(ctx, msg)
		}
	}
}

func (b *RedisBus) forward(ctx context.Context, msg *goredis.Message) {
	var ev Event
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		log.Warnw("Dropping malformed remote event", "channel", msg.Channel, "error", err)
		return
	}
	if ev.Origin == b.origin {
		return
	}
	if ev.Type == "" {
		ev.Type = strings.TrimPrefix(msg.Channel, b.prefix)
	}
	b.local.dispatch(ctx, ev)
}

// Close implements Bus. It stops Forward but does not close the client.
func (b *RedisBus) Close() error {
	_ = b.local.Close()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubsub != nil {
		err := b.pubsub.Close()
		b.pubsub = nil
		return err
	}
	return nil
}
