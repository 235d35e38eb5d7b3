// Package components registers the built-in components.
package components

import (
	"github.com/kart-io/hestia/internal/components/group"
	"github.com/kart-io/hestia/internal/components/logger"
	"github.com/kart-io/hestia/pkg/component"
)

// Register adds every built-in descriptor to reg.
func Register(reg *component.Registry) error {
	for _, d := range []component.Descriptor{
		logger.Descriptor(),
		group.Descriptor(),
	} {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}
