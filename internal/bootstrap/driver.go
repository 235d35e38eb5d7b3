package bootstrap

import (
	"context"
	"path/filepath"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/errors"
)

// SetupAll sets up every component named in cfg. A component that fails
// is logged and skipped; independent components still get set up.
func (b *Bootstrapper) SetupAll(ctx context.Context, cfg core.Config) *core.Runtime {
	cfg = b.useConfig(cfg)

	domains := cfg.Domains()
	order := b.resolver.LoadOrderSet(domains)
	log.Infow("Setting up components", "requested", len(domains), "resolved", len(order))

	var failed []string
	for _, domain := range order {
		if !b.setupComponent(ctx, domain, cfg) {
			failed = append(failed, domain)
		}
	}

	if len(failed) > 0 {
		log.Warnw("Some components failed to initialize", "failed", failed,
			"initialized", b.rt.Components.Len())
	} else {
		log.Infow("All components initialized", "initialized", b.rt.Components.Len())
	}
	return b.rt
}

// FromConfig processes the core section, enables logging when configured,
// runs the core setup hook and then sets up every configured component.
func (b *Bootstrapper) FromConfig(ctx context.Context, cfg core.Config) *core.Runtime {
	return b.fromConfig(ctx, cfg, b.logOpts != nil)
}

func (b *Bootstrapper) fromConfig(ctx context.Context, cfg core.Config, enableLog bool) *core.Runtime {
	if cfg == nil {
		cfg = core.Config{}
	}
	for key, opts := range cfg {
		if opts == nil {
			cfg[key] = core.Options{}
		}
	}

	core.ProcessCoreConfig(ctx, b.rt, cfg.Section(core.DomainKey), b.detector)

	if enableLog {
		if err := EnableLogging(b.rt.ConfigDir, b.logOpts, b.logCfg); err != nil {
			log.Errorw("Unable to enable logging", "error", err)
		}
	}

	if b.rt.SkipInstall {
		log.Warn("Skipping installation of required modules. This may cause issues.")
	}

	if b.coreSetup != nil {
		if err := b.coreSetup(ctx, b.rt, cfg); err != nil {
			log.Errorw("Core failed to initialize. Further initialization aborted.",
				"error", errors.ErrCoreSetupFailed.WithCause(err))
			return b.rt
		}
	}
	log.Info("Core initialized")

	return b.SetupAll(ctx, cfg)
}

// FromConfigFile uses the directory holding path as the config dir, enables
// logging when configured, loads the file and continues as FromConfig.
func (b *Bootstrapper) FromConfigFile(ctx context.Context, path string) (*core.Runtime, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return b.rt, errors.ErrConfigLoad.WithCause(err)
	}
	b.rt.ConfigDir = filepath.Dir(abs)

	if b.logOpts != nil {
		if err := EnableLogging(b.rt.ConfigDir, b.logOpts, b.logCfg); err != nil {
			log.Errorw("Unable to enable logging", "error", err)
		}
	}

	cfg, err := LoadConfigFile(abs)
	if err != nil {
		return b.rt, err
	}
	return b.fromConfig(ctx, cfg, false), nil
}
