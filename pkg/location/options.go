package location

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// DefaultURL is the geo-IP endpoint queried by default.
const DefaultURL = "http://ip-api.com/json"

// Options configures location auto-detection.
type Options struct {
	Enabled    bool          `json:"enabled" mapstructure:"enabled"`
	URL        string        `json:"url" mapstructure:"url"`
	Timeout    time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxRetries int           `json:"max-retries" mapstructure:"max-retries"`
}

// NewOptions returns the defaults.
func NewOptions() *Options {
	return &Options{
		Enabled:    true,
		URL:        DefaultURL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	}
}

// AddFlags adds location flags.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "location.enabled", o.Enabled, "Auto-detect missing location, unit and time zone.")
	fs.StringVar(&o.URL, "location.url", o.URL, "Geo-IP lookup endpoint.")
	fs.DurationVar(&o.Timeout, "location.timeout", o.Timeout, "Timeout of a single lookup.")
	fs.IntVar(&o.MaxRetries, "location.max-retries", o.MaxRetries, "Retries on transient lookup failures.")
}

// Validate checks the options.
func (o *Options) Validate() error {
	if !o.Enabled {
		return nil
	}
	u, err := url.Parse(o.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("location.url %q is not an absolute URL", o.URL)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("location.timeout must be positive")
	}
	if o.MaxRetries < 0 {
		return fmt.Errorf("location.max-retries must not be negative")
	}
	return nil
}

// Complete fills defaults.
func (o *Options) Complete() error {
	if o.URL == "" {
		o.URL = DefaultURL
	}
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}
	return nil
}
