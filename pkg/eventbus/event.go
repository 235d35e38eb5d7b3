// Package eventbus publishes runtime events to in-process listeners and,
// optionally, to Redis pub/sub.
package eventbus

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kart-io/hestia/pkg/utils/dt"
)

// Well-known event types.
const (
	// EventComponentLoaded is fired after a component finished setup.
	EventComponentLoaded = "component_loaded"
	// MatchAll subscribes a listener to every event type.
	MatchAll = "*"
)

// AttrComponent is the data key carrying the domain in EventComponentLoaded.
const AttrComponent = "component"

// Event is a single fired event.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"event_type"`
	Data      map[string]any `json:"data"`
	TimeFired time.Time      `json:"time_fired"`
	Origin    string         `json:"origin,omitempty"`
}

// NewEvent creates an event stamped with a fresh ULID and the current time.
func NewEvent(eventType string, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{
		ID:        ulid.Make().String(),
		Type:      eventType,
		Data:      data,
		TimeFired: dt.Now(),
	}
}

// Handler receives events.
type Handler func(ctx context.Context, ev Event)

// Bus is the publish side used by the bootstrapper plus listener registration.
type Bus interface {
	// Publish fires an event of eventType with data.
	Publish(ctx context.Context, eventType string, data map[string]any) error
	// Listen registers h for eventType, or for every type with MatchAll.
	Listen(eventType string, h Handler)
	// Close stops the bus. Publishing afterwards returns ErrBusClosed.
	Close() error
}

// Dispatcher runs listener callbacks. *pool.Pool satisfies it.
type Dispatcher interface {
	Submit(task func()) error
}
