package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/hestia/pkg/errors"
	"github.com/kart-io/hestia/pkg/infra/pool"
)

func TestLocalBus_PublishInline(t *testing.T) {
	bus := NewLocalBus(nil)

	var got []Event
	bus.Listen(EventComponentLoaded, func(_ context.Context, ev Event) { got = append(got, ev) })
	var all int
	bus.Listen(MatchAll, func(context.Context, Event) { all++ })
	bus.Listen("other", func(context.Context, Event) { t.Error("unexpected listener call") })

	require.NoError(t, bus.Publish(context.Background(), EventComponentLoaded, map[string]any{AttrComponent: "light"}))

	require.Len(t, got, 1)
	assert.Equal(t, EventComponentLoaded, got[0].Type)
	assert.Equal(t, "light", got[0].Data[AttrComponent])
	assert.Len(t, got[0].ID, 26)
	assert.False(t, got[0].TimeFired.IsZero())
	assert.Equal(t, 1, all)
}

func TestLocalBus_NilDataAndHandler(t *testing.T) {
	bus := NewLocalBus(nil)
	bus.Listen("x", nil)

	var data map[string]any
	bus.Listen("x", func(_ context.Context, ev Event) { data = ev.Data })
	require.NoError(t, bus.Publish(context.Background(), "x", nil))
	assert.NotNil(t, data)
}

func TestLocalBus_ListenerPanicIsContained(t *testing.T) {
	bus := NewLocalBus(nil)

	var called bool
	bus.Listen("x", func(context.Context, Event) { panic("boom") })
	bus.Listen("x", func(context.Context, Event) { called = true })

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), "x", nil)
	})
	assert.True(t, called)
}

func TestLocalBus_Closed(t *testing.T) {
	bus := NewLocalBus(nil)
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), "x", nil)
	assert.True(t, errors.IsCode(err, errors.ErrBusClosed.Code))
}

func TestLocalBus_PoolDispatch(t *testing.T) {
	p, err := pool.NewPool("eventbus-test", pool.DefaultConfig())
	require.NoError(t, err)
	defer p.Release()

	bus := NewLocalBus(p)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]bool{}
	bus.Listen(EventComponentLoaded, func(_ context.Context, ev Event) {
		defer wg.Done()
		mu.Lock()
		seen[ev.Data[AttrComponent].(string)] = true
		mu.Unlock()
	})

	for _, domain := range []string{"a", "b", "c"} {
		wg.Add(1)
		require.NoError(t, bus.Publish(context.Background(), EventComponentLoaded, map[string]any{AttrComponent: domain}))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listeners did not run")
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
}

type rejectingDispatcher struct{}

func (rejectingDispatcher) Submit(func()) error { return pool.ErrPoolOverload }

func TestLocalBus_RejectedDispatchRunsInline(t *testing.T) {
	bus := NewLocalBus(rejectingDispatcher{})
	var called bool
	bus.Listen("x", func(context.Context, Event) { called = true })
	require.NoError(t, bus.Publish(context.Background(), "x", nil))
	assert.True(t, called)
}
