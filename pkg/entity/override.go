// Package entity holds per-entity attribute overrides configured under the
// core section's customize key.
package entity

import (
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/kart-io/hestia/pkg/errors"
	"github.com/kart-io/hestia/pkg/validator"
)

// OverrideRegistry maps entity ids to attribute overrides.
// It is safe for concurrent use.
type OverrideRegistry struct {
	mu        sync.RWMutex
	overrides map[string]map[string]any
}

// NewOverrideRegistry creates an empty registry.
func NewOverrideRegistry() *OverrideRegistry {
	return &OverrideRegistry{
		overrides: make(map[string]map[string]any),
	}
}

// Overwrite merges attrs into the overrides of entityID. Later calls win per
// attribute. Entity ids are stored lower-cased.
func (r *OverrideRegistry) Overwrite(entityID string, attrs map[string]any) error {
	entityID = strings.ToLower(strings.TrimSpace(entityID))
	if err := validator.Var(entityID, validator.TagEntityID); err != nil {
		return errors.ErrInvalidEntityID.WithMessagef("invalid entity id %q", entityID).WithCause(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.overrides[entityID]
	if !ok {
		cur = make(map[string]any, len(attrs))
		r.overrides[entityID] = cur
	}
	maps.Copy(cur, attrs)
	return nil
}

// Get returns a copy of the overrides for entityID.
func (r *OverrideRegistry) Get(entityID string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cur, ok := r.overrides[strings.ToLower(entityID)]
	if !ok {
		return nil, false
	}
	return maps.Clone(cur), true
}

// Apply returns attrs with the overrides of entityID laid on top.
// attrs itself is not modified.
func (r *OverrideRegistry) Apply(entityID string, attrs map[string]any) map[string]any {
	out := maps.Clone(attrs)
	if out == nil {
		out = make(map[string]any)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	maps.Copy(out, r.overrides[strings.ToLower(entityID)])
	return out
}

// EntityIDs returns the ids with overrides, sorted.
func (r *OverrideRegistry) EntityIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.overrides))
	for id := range r.overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of entities with overrides.
func (r *OverrideRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.overrides)
}
