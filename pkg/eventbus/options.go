package eventbus

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Bus types.
const (
	TypeLocal = "local"
	TypeRedis = "redis"
)

// Options configures the event bus.
type Options struct {
	Type          string        `json:"type" mapstructure:"type"`
	RedisAddr     string        `json:"redis-addr" mapstructure:"redis-addr"`
	RedisPassword string        `json:"-" mapstructure:"redis-password"`
	RedisDB       int           `json:"redis-db" mapstructure:"redis-db"`
	ChannelPrefix string        `json:"channel-prefix" mapstructure:"channel-prefix"`
	DialTimeout   time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`
}

// NewOptions returns the defaults: an in-process bus.
func NewOptions() *Options {
	return &Options{
		Type:          TypeLocal,
		RedisAddr:     "127.0.0.1:6379",
		ChannelPrefix: "hestia:events:",
		DialTimeout:   5 * time.Second,
	}
}

// AddFlags adds eventbus flags.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Type, "eventbus.type", o.Type, "Event bus type: local or redis.")
	fs.StringVar(&o.RedisAddr, "eventbus.redis-addr", o.RedisAddr, "Redis address for the redis bus.")
	fs.StringVar(&o.RedisPassword, "eventbus.redis-password", o.RedisPassword, "Redis password for the redis bus.")
	fs.IntVar(&o.RedisDB, "eventbus.redis-db", o.RedisDB, "Redis database for the redis bus.")
	fs.StringVar(&o.ChannelPrefix, "eventbus.channel-prefix", o.ChannelPrefix, "Pub/sub channel prefix.")
	fs.DurationVar(&o.DialTimeout, "eventbus.dial-timeout", o.DialTimeout, "Redis dial timeout.")
}

// Validate checks the options.
func (o *Options) Validate() error {
	switch o.Type {
	case TypeLocal:
		return nil
	case TypeRedis:
		if o.RedisAddr == "" {
			return fmt.Errorf("eventbus.redis-addr is required for the redis bus")
		}
		if o.ChannelPrefix == "" {
			return fmt.Errorf("eventbus.channel-prefix must not be empty")
		}
		return nil
	default:
		return fmt.Errorf("unknown eventbus.type %q", o.Type)
	}
}

// Complete fills defaults.
func (o *Options) Complete() error {
	if o.Type == "" {
		o.Type = TypeLocal
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = 5 * time.Second
	}
	return nil
}
