package pool

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options configures the runtime worker pool from flags or config.
type Options struct {
	Capacity       int           `json:"capacity" mapstructure:"capacity"`
	ExpiryDuration time.Duration `json:"expiry-duration" mapstructure:"expiry-duration"`
	Nonblocking    bool          `json:"nonblocking" mapstructure:"nonblocking"`
}

// NewOptions returns Options matching DefaultConfig.
func NewOptions() *Options {
	c := DefaultConfig()
	return &Options{
		Capacity:       c.Capacity,
		ExpiryDuration: c.ExpiryDuration,
	}
}

// AddFlags adds pool flags to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Capacity, "pool.capacity", o.Capacity,
		"Initial worker count; grows by one per component that needs a dedicated worker")
	fs.DurationVar(&o.ExpiryDuration, "pool.expiry-duration", o.ExpiryDuration, "Idle worker expiry")
	fs.BoolVar(&o.Nonblocking, "pool.nonblocking", o.Nonblocking, "Reject tasks instead of blocking when all workers are busy")
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("pool.capacity must be positive, got %d", o.Capacity)
	}
	return nil
}

// Complete completes the options.
func (o *Options) Complete() error {
	return nil
}

// Config converts the options to a pool Config.
func (o *Options) Config() *Config {
	return &Config{
		Capacity:       o.Capacity,
		ExpiryDuration: o.ExpiryDuration,
		Nonblocking:    o.Nonblocking,
	}
}
