package bootstrap

import (
	"context"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/component"
)

// PlatformID joins a domain and a platform name.
func PlatformID(domain, platform string) string {
	return domain + "." + platform
}

// PreparePlatform makes platform of domain usable: every dependency it
// declares is set up and its requirements are installed. It returns nil
// when the platform is unknown or cannot be prepared. The platform itself
// is not set up.
func (b *Bootstrapper) PreparePlatform(ctx context.Context, cfg core.Config, domain, platform string) *component.Descriptor {
	id := PlatformID(domain, platform)

	d, ok := b.registry.Lookup(id)
	if !ok {
		log.Errorf("Unable to find platform %s", id)
		return nil
	}

	if b.rt.Components.Has(id) {
		return d
	}
	cfg = b.useConfig(cfg)

	for _, dep := range d.Dependencies {
		if !b.SetupComponent(ctx, dep, cfg) {
			log.Errorf("Unable to prepare setup for platform %s because dependency %s could not be initialized", id, dep)
			return nil
		}
	}

	if !b.handleRequirements(ctx, d, id) {
		return nil
	}
	return d
}
