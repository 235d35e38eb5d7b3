// Package component describes pluggable components and resolves the order
// they must be set up in.
package component

import (
	"context"
	"slices"

	"github.com/kart-io/hestia/internal/core"
)

// GroupDomain is the coordination domain. Components depending on it are
// assumed not to talk to devices themselves.
const GroupDomain = "group"

// SetupFunc initializes a component. A nil error means success.
type SetupFunc func(ctx context.Context, rt *core.Runtime, opts core.Options) error

// WorkerPolicy decides whether a component gets a dedicated pool worker
// once it is set up.
type WorkerPolicy int

const (
	// WorkerAuto adds a worker unless the component depends on GroupDomain.
	WorkerAuto WorkerPolicy = iota
	// WorkerDedicated always adds a worker.
	WorkerDedicated
	// WorkerShared never adds a worker.
	WorkerShared
)

// String implements fmt.Stringer.
func (p WorkerPolicy) String() string {
	switch p {
	case WorkerDedicated:
		return "dedicated"
	case WorkerShared:
		return "shared"
	default:
		return "auto"
	}
}

// Descriptor is the static metadata of a component or platform. Platforms
// use "<domain>.<platform>" as Domain. Descriptors are read-only once
// registered.
type Descriptor struct {
	Domain string `validate:"required,component_id"`
	// Dependencies are domains that must be initialized first.
	Dependencies []string `validate:"dive,component_id"`
	// Requirements are package specifiers installed before Setup runs.
	Requirements []string `validate:"dive,required"`
	// Setup may be nil for platforms, which are set up by their domain.
	Setup  SetupFunc
	Worker WorkerPolicy
}

// DependsOn reports whether domain is a declared dependency.
func (d *Descriptor) DependsOn(domain string) bool {
	return slices.Contains(d.Dependencies, domain)
}

// WantsWorker reports whether setting up d should grow the worker pool.
func (d *Descriptor) WantsWorker() bool {
	switch d.Worker {
	case WorkerDedicated:
		return true
	case WorkerShared:
		return false
	default:
		return !d.DependsOn(GroupDomain)
	}
}
