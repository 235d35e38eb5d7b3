package component

import (
	"sort"
	"sync"

	"github.com/kart-io/hestia/pkg/errors"
	"github.com/kart-io/hestia/pkg/validator"
)

// Lookuper finds descriptors by id.
type Lookuper interface {
	Lookup(id string) (*Descriptor, bool)
}

// Registry holds explicitly registered descriptors. It is safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

var _ Lookuper = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Register adds d. The descriptor is copied.
func (r *Registry) Register(d Descriptor) error {
	if err := validator.Struct(&d); err != nil {
		return errors.ErrInvalidComponentID.WithMessagef("invalid descriptor %q", d.Domain).WithCause(err)
	}

	d.Dependencies = append([]string(nil), d.Dependencies...)
	d.Requirements = append([]string(nil), d.Requirements...)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Domain]; exists {
		return errors.ErrDuplicateComponent.WithMessagef("component %q already registered", d.Domain)
	}
	r.descriptors[d.Domain] = &d
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(descriptors ...Descriptor) {
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Lookup implements Lookuper.
func (r *Registry) Lookup(id string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[id]
	return d, ok
}

// Domains returns every registered id, sorted.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks that every registered descriptor has a resolvable
// dependency chain.
func (r *Registry) Validate() error {
	res := NewResolver(r)
	for _, id := range r.Domains() {
		if _, err := res.resolve(id); err != nil {
			return err
		}
	}
	return nil
}
