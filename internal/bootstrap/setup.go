package bootstrap

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/component"
	"github.com/kart-io/hestia/pkg/errors"
	"github.com/kart-io/hestia/pkg/eventbus"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/infra/tracing"
)

// SetupComponent sets up domain and every dependency it needs, in
// dependency order, stopping at the first failure. It returns true when
// domain is initialized afterwards. Setting up an initialized domain is a
// no-op. A non-nil cfg becomes the runtime configuration; a nil cfg uses
// the current one.
func (b *Bootstrapper) SetupComponent(ctx context.Context, domain string, cfg core.Config) bool {
	if b.rt.Components.Has(domain) {
		return true
	}
	cfg = b.useConfig(cfg)

	order := b.resolver.LoadOrder(domain)
	if len(order) == 0 {
		log.Errorw("Unable to resolve component or its dependencies", "component", domain,
			"error", errors.ErrDependencyUnresolved)
		return false
	}

	for _, id := range order {
		if !b.setupComponent(ctx, id, cfg) {
			return false
		}
	}
	return true
}

// useConfig installs cfg as the runtime configuration, so components
// reading instance sections see the same configuration as the caller.
func (b *Bootstrapper) useConfig(cfg core.Config) core.Config {
	if cfg == nil {
		if b.rt.Config == nil {
			b.rt.Config = core.Config{}
		}
		return b.rt.Config
	}
	b.rt.Config = cfg
	return cfg
}

// setupComponent sets up a single domain whose dependencies must already be
// initialized.
func (b *Bootstrapper) setupComponent(ctx context.Context, domain string, cfg core.Config) bool {
	if b.rt.Components.Has(domain) {
		return true
	}

	d, ok := b.registry.Lookup(domain)
	if !ok {
		log.Errorw("Unable to find component", "component", domain, "error", errors.ErrComponentNotFound)
		return false
	}

	var missing []string
	for _, dep := range d.Dependencies {
		if !b.rt.Components.Has(dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		log.Errorf("Not initializing %s because not all dependencies loaded: %s",
			domain, strings.Join(missing, ", "))
		return false
	}

	if !b.handleRequirements(ctx, d, domain) {
		return false
	}

	ctx, span := tracing.StartSpan(ctx, tracing.TracerBootstrap, "component.setup",
		trace.WithAttributes(tracing.AttrComponent.String(domain)))
	defer span.End()
	ctx = applog.WithComponent(ctx, domain)
	clog := applog.FromContext(ctx, "hestia.bootstrap")

	if err := runSetup(ctx, b.rt, d, cfg.Section(domain)); err != nil {
		tracing.RecordError(ctx, err)
		if errors.IsCode(err, errors.ErrSetupPanic.Code) {
			clog.Errorw("Error during setup of component", "error", err)
		} else {
			clog.Errorw("Component failed to initialize", "error", err)
		}
		return false
	}

	b.rt.Components.Add(d.Domain)

	if d.WantsWorker() && b.rt.Pool != nil {
		b.rt.Pool.AddWorker()
	}

	if b.rt.Bus != nil {
		if err := b.rt.Bus.Publish(ctx, eventbus.EventComponentLoaded,
			map[string]any{eventbus.AttrComponent: d.Domain}); err != nil {
			clog.Warnw("Unable to publish component loaded event", "error", err)
		}
	}

	tracing.SetSpanOK(ctx)
	clog.Debugw("Component initialized", "worker", d.Worker.String())
	return true
}

// runSetup calls the setup entry point, converting panics to errors.
func runSetup(ctx context.Context, rt *core.Runtime, d *component.Descriptor, opts core.Options) (err error) {
	if d.Setup == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.ErrSetupPanic.
				WithMessagef("setup of %s panicked: %v", d.Domain, r).
				WithCause(fmt.Errorf("%v\n%s", r, debug.Stack()))
		}
	}()

	if serr := d.Setup(ctx, rt, opts); serr != nil {
		return errors.ErrSetupFailed.WithMessagef("component %s failed to initialize", d.Domain).WithCause(serr)
	}
	return nil
}

// handleRequirements installs the requirements of d unless installation is
// disabled. name is the id reported in logs.
func (b *Bootstrapper) handleRequirements(ctx context.Context, d *component.Descriptor, name string) bool {
	if b.rt.SkipInstall || len(d.Requirements) == 0 {
		return true
	}

	target := b.targetDir()
	for _, req := range d.Requirements {
		if !b.installer.EnsureInstalled(ctx, req, target) {
			log.Errorw(fmt.Sprintf("Not initializing %s because could not install dependency %s", name, req),
				"component", name, "requirement", req, "error", errors.ErrInstallFailed)
			return false
		}
	}
	return true
}
