package core

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/kart-io/hestia/pkg/entity"
	"github.com/kart-io/hestia/pkg/eventbus"
)

// TemperatureUnit is the unit temperatures are reported in.
type TemperatureUnit string

// Temperature units. The zero value means not configured.
const (
	TempCelsius    TemperatureUnit = "°C"
	TempFahrenheit TemperatureUnit = "°F"
)

// Settings are the core settings resolved from the core section and
// location detection. Nil pointers and empty values mean unset.
type Settings struct {
	Latitude        *float64
	Longitude       *float64
	LocationName    string
	TimeZone        *time.Location
	TemperatureUnit TemperatureUnit
}

// WorkerPool is the shared pool components submit work to.
type WorkerPool interface {
	AddWorker()
}

// Runtime is the handle passed to every component setup.
type Runtime struct {
	Settings   Settings
	Components *ComponentSet
	// SkipInstall disables requirement installation.
	SkipInstall bool
	ConfigDir   string
	// Config is the full configuration being bootstrapped.
	Config    Config
	Bus       eventbus.Bus
	Pool      WorkerPool
	Overrides *entity.OverrideRegistry

	data sync.Map
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithConfigDir sets the configuration directory.
func WithConfigDir(dir string) RuntimeOption {
	return func(rt *Runtime) {
		rt.ConfigDir = dir
	}
}

// WithBus sets the event bus.
func WithBus(bus eventbus.Bus) RuntimeOption {
	return func(rt *Runtime) {
		rt.Bus = bus
	}
}

// WithPool sets the worker pool.
func WithPool(pool WorkerPool) RuntimeOption {
	return func(rt *Runtime) {
		rt.Pool = pool
	}
}

// NewRuntime creates a runtime. Without WithBus an in-process bus is used.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		Components: NewComponentSet(),
		Config:     Config{},
		Overrides:  entity.NewOverrideRegistry(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.Bus == nil {
		rt.Bus = eventbus.NewLocalBus(nil)
	}
	return rt
}

// Path joins elems onto the configuration directory.
func (rt *Runtime) Path(elems ...string) string {
	return filepath.Join(append([]string{rt.ConfigDir}, elems...)...)
}

// Store keeps component-owned state under key, usually the component domain.
func (rt *Runtime) Store(key string, value any) {
	rt.data.Store(key, value)
}

// Load returns the state stored under key.
func (rt *Runtime) Load(key string) (any, bool) {
	return rt.data.Load(key)
}
