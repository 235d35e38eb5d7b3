// Package app wires the hestia command.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/hestia/cmd/hestia/app/options"
	"github.com/kart-io/hestia/internal/bootstrap"
	"github.com/kart-io/hestia/internal/components"
	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/component"
	"github.com/kart-io/hestia/pkg/eventbus"
	"github.com/kart-io/hestia/pkg/infra/app"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/infra/pool"
	"github.com/kart-io/hestia/pkg/infra/tracing"
	"github.com/kart-io/hestia/pkg/location"
	"github.com/kart-io/hestia/pkg/requirement"
)

const (
	// Name is the name of the application.
	Name = "hestia"

	shutdownTimeout = 10 * time.Second

	commandDesc = `Hestia bootstraps an automation runtime from a configuration file.

It processes the core section, auto-detects missing location settings,
installs component requirements and sets every configured component up
in dependency order.

Examples:
  # Start with ./configuration.yaml
  hestia

  # Use another configuration and skip requirement installs
  hestia --config-file=/srv/hestia/configuration.yaml --skip-install

  # Run without console output, rotating the error log daily
  hestia --daemon --log-rotate-days=7

Options can be provided via flags, HESTIA_* environment variables or
an options file (-c hestia.yaml).`
)

var log = applog.Named("hestia.app")

// NewApp creates the hestia command with default options.
func NewApp() *app.App {
	opts := options.NewOptions()
	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription("Bootstrap an automation runtime"),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(func(ctx context.Context) error {
			return Run(ctx, opts)
		}),
	)
}

// Run bootstraps the runtime described by opts and blocks until ctx is done.
func Run(ctx context.Context, opts *options.Options) error {
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Infow("Starting hestia", "version", app.GetVersion(), "config_file", opts.ConfigFile)

	tp, err := tracing.NewProvider(ctx, opts.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	workers, err := pool.NewPool(Name, opts.Pool.Config())
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	bus, err := eventbus.New(ctx, opts.EventBus, workers)
	if err != nil {
		workers.Release()
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	registry := component.NewRegistry()
	if err := components.Register(registry); err != nil {
		workers.Release()
		return fmt.Errorf("failed to register components: %w", err)
	}
	if err := registry.Validate(); err != nil {
		workers.Release()
		return fmt.Errorf("invalid component registry: %w", err)
	}

	rt := core.NewRuntime(core.WithBus(bus), core.WithPool(workers))
	rt.SkipInstall = opts.SkipInstall

	b := bootstrap.New(rt, registry,
		bootstrap.WithInstaller(requirement.NewInstaller(opts.Installer)),
		bootstrap.WithDetector(location.New(opts.Location)),
		bootstrap.WithLogging(opts.Log, opts.LoggingConfig()),
		bootstrap.WithLibDir(opts.LibDir),
	)

	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := b.Shutdown(sctx); err != nil {
			log.Warnw("Shutdown finished with errors", "error", err)
		}
		if err := workers.ReleaseTimeout(shutdownTimeout); err != nil {
			log.Warnw("Worker pool did not drain", "error", err)
		}
		_ = tp.Shutdown(sctx)
	}()

	if _, err := b.FromConfigFile(ctx, opts.ConfigFile); err != nil {
		return err
	}

	log.Infow("Hestia initialized", "components", rt.Components.List())
	<-ctx.Done()
	log.Info("Shutting down")
	return nil
}
