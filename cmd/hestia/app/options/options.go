// Package options contains flags and options for running hestia.
package options

import (
	"fmt"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/hestia/internal/bootstrap"
	"github.com/kart-io/hestia/pkg/eventbus"
	"github.com/kart-io/hestia/pkg/infra/pool"
	"github.com/kart-io/hestia/pkg/infra/tracing"
	"github.com/kart-io/hestia/pkg/location"
	logopts "github.com/kart-io/hestia/pkg/options/logger"
	"github.com/kart-io/hestia/pkg/requirement"
)

// DefaultConfigFile is the platform configuration loaded when none is given.
const DefaultConfigFile = "configuration.yaml"

// Options contains every option of the hestia command.
type Options struct {
	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Tracing contains OpenTelemetry configuration.
	Tracing *tracing.Options `json:"tracing" mapstructure:"tracing"`

	// Pool sizes the shared worker pool.
	Pool *pool.Options `json:"pool" mapstructure:"pool"`

	// Installer configures requirement installation.
	Installer *requirement.Options `json:"installer" mapstructure:"installer"`

	// Location configures location auto-detection.
	Location *location.Options `json:"location" mapstructure:"location"`

	// EventBus selects the event bus.
	EventBus *eventbus.Options `json:"eventbus" mapstructure:"eventbus"`

	// ConfigFile is the platform configuration file.
	ConfigFile string `json:"config-file" mapstructure:"config-file"`
	// LibDir overrides the requirement install target, "<config dir>/lib" by default.
	LibDir        string `json:"lib-dir" mapstructure:"lib-dir"`
	SkipInstall   bool   `json:"skip-install" mapstructure:"skip-install"`
	Verbose       bool   `json:"verbose" mapstructure:"verbose"`
	Daemon        bool   `json:"daemon" mapstructure:"daemon"`
	LogRotateDays int    `json:"log-rotate-days" mapstructure:"log-rotate-days"`
}

// NewOptions creates Options with default values.
func NewOptions() *Options {
	return &Options{
		Log:        logopts.NewOptions(),
		Tracing:    tracing.NewOptions(),
		Pool:       pool.NewOptions(),
		Installer:  requirement.NewOptions(),
		Location:   location.NewOptions(),
		EventBus:   eventbus.NewOptions(),
		ConfigFile: DefaultConfigFile,
	}
}

// AddFlags adds every flag to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.Tracing.AddFlags(fs)
	o.Pool.AddFlags(fs)
	o.Installer.AddFlags(fs)
	o.Location.AddFlags(fs)
	o.EventBus.AddFlags(fs)

	fs.StringVar(&o.ConfigFile, "config-file", o.ConfigFile, "Platform configuration file. Its directory becomes the config dir.")
	fs.StringVar(&o.LibDir, "lib-dir", o.LibDir, "Directory requirements are installed into, defaults to lib inside the config dir.")
	fs.BoolVar(&o.SkipInstall, "skip-install", o.SkipInstall, "Skip installing component requirements.")
	fs.BoolVar(&o.Verbose, "verbose", o.Verbose, "Write INFO records to the error log as well.")
	fs.BoolVar(&o.Daemon, "daemon", o.Daemon, "Disable console logging.")
	fs.IntVar(&o.LogRotateDays, "log-rotate-days", o.LogRotateDays, "Rotate the error log daily keeping this many days, 0 disables.")
}

// Complete completes all the options.
func (o *Options) Complete() error {
	for _, c := range []interface{ Complete() error }{
		o.Log, o.Tracing, o.Pool, o.Installer, o.Location, o.EventBus,
	} {
		if err := c.Complete(); err != nil {
			return err
		}
	}
	if o.ConfigFile == "" {
		o.ConfigFile = DefaultConfigFile
	}
	return nil
}

// Validate checks whether the options are valid.
func (o *Options) Validate() error {
	errs := []error{
		o.Log.Validate(),
		o.Tracing.Validate(),
		o.Pool.Validate(),
		o.Installer.Validate(),
		o.Location.Validate(),
		o.EventBus.Validate(),
	}
	if o.LogRotateDays < 0 {
		errs = append(errs, fmt.Errorf("log-rotate-days must not be negative, got %d", o.LogRotateDays))
	}
	return utilerrors.NewAggregate(errs)
}

// LoggingConfig returns the sinks selected by the bootstrap flags.
func (o *Options) LoggingConfig() bootstrap.LoggingConfig {
	return bootstrap.LoggingConfig{
		Verbose:    o.Verbose,
		Daemon:     o.Daemon,
		RotateDays: o.LogRotateDays,
	}
}
