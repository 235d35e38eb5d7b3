// Package bootstrap brings a runtime up from configuration: it resolves
// component dependencies, installs requirements and runs component setups
// in order, isolating failures to the component that caused them.
package bootstrap

import (
	"context"
	"errors"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/component"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/location"
	logopts "github.com/kart-io/hestia/pkg/options/logger"
	"github.com/kart-io/hestia/pkg/requirement"
)

var log = applog.Named("hestia.bootstrap")

// Installer ensures a requirement is present. *requirement.Installer
// satisfies it.
type Installer interface {
	EnsureInstalled(ctx context.Context, spec, targetDir string) bool
}

// CoreSetupFunc runs after the core section is processed and before any
// component is set up. An error aborts further initialization.
type CoreSetupFunc func(ctx context.Context, rt *core.Runtime, cfg core.Config) error

// LoggingConfig selects the sinks enabled by EnableLogging.
type LoggingConfig struct {
	// Verbose lowers the error log threshold from WARN to INFO.
	Verbose bool
	// Daemon disables the console sink.
	Daemon bool
	// RotateDays rotates the error log daily keeping that many days, 0 disables.
	RotateDays int
}

// Bootstrapper sets components up against one runtime.
type Bootstrapper struct {
	rt        *core.Runtime
	registry  component.Lookuper
	resolver  component.Resolver
	installer Installer
	detector  location.Detector
	coreSetup CoreSetupFunc

	logOpts *logopts.Options
	logCfg  LoggingConfig
	libDir  string
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithResolver replaces the dependency resolver.
func WithResolver(r component.Resolver) Option {
	return func(b *Bootstrapper) {
		b.resolver = r
	}
}

// WithInstaller replaces the requirement installer.
func WithInstaller(i Installer) Option {
	return func(b *Bootstrapper) {
		b.installer = i
	}
}

// WithDetector sets the location detector used by FromConfig.
func WithDetector(d location.Detector) Option {
	return func(b *Bootstrapper) {
		b.detector = d
	}
}

// WithCoreSetup sets the hook run before components are set up.
func WithCoreSetup(fn CoreSetupFunc) Option {
	return func(b *Bootstrapper) {
		b.coreSetup = fn
	}
}

// WithLogging makes FromConfig and FromConfigFile call EnableLogging.
func WithLogging(opts *logopts.Options, cfg LoggingConfig) Option {
	return func(b *Bootstrapper) {
		b.logOpts = opts
		b.logCfg = cfg
	}
}

// WithLibDir sets the private install target. It defaults to "lib" inside
// the runtime's config dir.
func WithLibDir(dir string) Option {
	return func(b *Bootstrapper) {
		b.libDir = dir
	}
}

// New creates a Bootstrapper over rt and the descriptors in registry.
func New(rt *core.Runtime, registry component.Lookuper, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		rt:       rt,
		registry: registry,
		detector: location.Disabled,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.resolver == nil {
		b.resolver = component.NewResolver(registry, component.WithPriority("logger"))
	}
	if b.installer == nil {
		b.installer = requirement.NewInstaller(nil)
	}
	return b
}

// Runtime returns the runtime being bootstrapped.
func (b *Bootstrapper) Runtime() *core.Runtime {
	return b.rt
}

// targetDir is where requirements get installed.
func (b *Bootstrapper) targetDir() string {
	if b.libDir != "" {
		return b.libDir
	}
	if b.rt.ConfigDir != "" {
		return b.rt.Path("lib")
	}
	return ""
}

// Shutdown closes the event bus and flushes the logger.
func (b *Bootstrapper) Shutdown(_ context.Context) error {
	var errs []error
	if b.rt.Bus != nil {
		errs = append(errs, b.rt.Bus.Close())
	}
	errs = append(errs, log.Flush())
	return errors.Join(errs...)
}
