package requirement

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/infra/tracing"
)

var log = applog.Named("hestia.requirement")

const siteDirsScript = "import site, sys; print('\\n'.join(site.getsitepackages() + [site.getusersitepackages()]))"

// Installer installs requirements with pip. At most one install runs at a
// time; concurrent requests for the same specifier and target share one
// install.
type Installer struct {
	opts   Options
	runner Runner

	mu    sync.Mutex
	group singleflight.Group

	siteOnce sync.Once
	siteDirs []string
}

// Option configures an Installer.
type Option func(*Installer)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(i *Installer) {
		i.runner = r
	}
}

// NewInstaller creates an installer. A nil opts uses NewOptions.
func NewInstaller(opts *Options, options ...Option) *Installer {
	if opts == nil {
		opts = NewOptions()
	}
	i := &Installer{
		opts:   *opts,
		runner: ExecRunner{},
	}
	for _, o := range options {
		o(i)
	}
	return i
}

// EnsureInstalled makes sure spec is importable, installing it into
// targetDir (or the interpreter's default location when empty) if needed.
// It reports whether the requirement is present afterwards. Errors are
// logged, never returned.
func (i *Installer) EnsureInstalled(ctx context.Context, spec, targetDir string) bool {
	v, _, _ := i.group.Do(spec+"\x00"+targetDir, func() (interface{}, error) {
		return i.ensure(ctx, spec, targetDir), nil
	})
	return v.(bool)
}

func (i *Installer) ensure(ctx context.Context, spec, targetDir string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	ctx, span := tracing.StartSpan(ctx, tracing.TracerInstaller, "requirement.ensure",
		trace.WithAttributes(tracing.AttrRequirement.String(spec), tracing.AttrTargetDir.String(targetDir)))
	defer span.End()

	if i.exists(ctx, spec, targetDir) {
		tracing.SetSpanOK(ctx)
		return true
	}

	log.Infof("Attempting install of %s", spec)

	if err := i.install(ctx, spec, targetDir); err != nil {
		log.Errorw("Requirement install failed", "requirement", spec, "error", err)
		tracing.RecordError(ctx, err)
		return false
	}
	tracing.SetSpanOK(ctx)
	return true
}

// exists checks targetDir first, then the site directories. Unparseable
// specifiers are treated as absent so pip gets to decide.
func (i *Installer) exists(ctx context.Context, spec, targetDir string) bool {
	req, err := Parse(spec)
	if err != nil {
		log.Warnw("Cannot check requirement presence", "requirement", spec, "error", err)
		return false
	}

	if d, ok := findIn(req, targetDir); ok {
		log.Debugw("Requirement satisfied in target dir", "requirement", spec, "version", d.Version, "path", d.Path)
		return true
	}
	if d, ok := findIn(req, i.sitePackages(ctx)...); ok {
		log.Debugw("Requirement satisfied in environment", "requirement", spec, "version", d.Version, "path", d.Path)
		return true
	}
	return false
}

func (i *Installer) sitePackages(ctx context.Context) []string {
	i.siteOnce.Do(func() {
		i.siteDirs = i.opts.SiteDirs
		if len(i.siteDirs) > 0 || !i.opts.DiscoverSiteDirs {
			return
		}
		out, err := i.runner.Run(ctx, i.opts.Python, "-c", siteDirsScript)
		if err != nil {
			log.Warnw("Unable to discover site-packages", "python", i.opts.Python, "error", err)
			return
		}
		for _, line := range strings.Split(string(out), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				i.siteDirs = append(i.siteDirs, line)
			}
		}
	})
	return i.siteDirs
}

func (i *Installer) install(ctx context.Context, spec, targetDir string) error {
	args := []string{"-m", "pip", "install", "--quiet", spec}
	if i.opts.Upgrade {
		args = append(args, "--upgrade")
	}
	if targetDir != "" {
		abs, err := filepath.Abs(targetDir)
		if err != nil {
			return errors.ErrInstallFailed.WithCause(err)
		}
		args = append(args, "--target", abs)
	}

	if i.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
		defer cancel()
	}

	out, err := i.runner.Run(ctx, i.opts.Python, args...)
	if err == nil {
		return nil
	}
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.ErrInstallTimeout.WithMessagef("install of %s exceeded %s", spec, i.opts.Timeout).WithCause(err)
	}
	if len(out) > 0 {
		log.Debugw("pip output", "requirement", spec, "output", strings.TrimSpace(string(out)))
	}
	return errors.ErrInstallFailed.WithMessagef("pip install %s", spec).WithCause(err)
}
