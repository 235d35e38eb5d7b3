package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
)

var log = applog.Named("hestia.eventbus")

// LocalBus delivers events to in-process listeners. Each listener call is
// handed to the dispatcher; without one, listeners run on the publishing
// goroutine.
type LocalBus struct {
	mu         sync.RWMutex
	listeners  map[string][]Handler
	dispatcher Dispatcher
	closed     atomic.Bool
}

var _ Bus = (*LocalBus)(nil)

// NewLocalBus creates a LocalBus. dispatcher may be nil.
func NewLocalBus(dispatcher Dispatcher) *LocalBus {
	return &LocalBus{
		listeners:  make(map[string][]Handler),
		dispatcher: dispatcher,
	}
}

// Listen implements Bus.
func (b *LocalBus) Listen(eventType string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.listeners[eventType] = append(b.listeners[eventType], h)
	b.mu.Unlock()
}

// Publish implements Bus.
func (b *LocalBus) Publish(ctx context.Context, eventType string, data map[string]any) error {
	if b.closed.Load() {
		return errors.ErrBusClosed
	}
	ev := NewEvent(eventType, data)
	b.dispatch(ctx, ev)
	return nil
}

// dispatch hands ev to the matching listeners.
func (b *LocalBus) dispatch(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.listeners[ev.Type])+len(b.listeners[MatchAll]))
	handlers = append(handlers, b.listeners[ev.Type]...)
	handlers = append(handlers, b.listeners[MatchAll]...)
	b.mu.RUnlock()

	log.Debugw("Bus fired", "event_type", ev.Type, "event_id", ev.ID, "listeners", len(handlers))

	for _, h := range handlers {
		run := func() { safeCall(ctx, h, ev) }
		if b.dispatcher == nil {
			run()
			continue
		}
		if err := b.dispatcher.Submit(run); err != nil {
			// Pool full or released: run on this goroutine.
			log.Warnw("Dispatcher rejected listener, running inline", "event_type", ev.Type, "error", err)
			run()
		}
	}
}

func safeCall(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("Event listener panicked", "event_type", ev.Type, "panic", r)
		}
	}()
	h(ctx, ev)
}

// Close implements Bus.
func (b *LocalBus) Close() error {
	b.closed.Store(true)
	return nil
}
