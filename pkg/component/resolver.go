package component

import (
	"slices"
	"sort"
	"strings"

	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
)

var log = applog.Named("hestia.component")

// Resolver produces dependency-respecting setup orders. An empty result
// means the request could not be resolved.
type Resolver interface {
	// LoadOrder returns domain preceded by its transitive dependencies.
	LoadOrder(domain string) []string
	// LoadOrderSet merges the load orders of domains. Domains whose chain
	// cannot be resolved are left out.
	LoadOrderSet(domains []string) []string
}

// GraphResolver resolves orders by walking descriptor dependencies.
type GraphResolver struct {
	lookup   Lookuper
	priority []string
}

var _ Resolver = (*GraphResolver)(nil)

// ResolverOption configures a GraphResolver.
type ResolverOption func(*GraphResolver)

// WithPriority moves the given domains to the front of LoadOrderSet
// results, in the given order, when they are part of the result.
func WithPriority(domains ...string) ResolverOption {
	return func(r *GraphResolver) {
		r.priority = append(r.priority, domains...)
	}
}

// NewResolver creates a resolver over lookup.
func NewResolver(lookup Lookuper, opts ...ResolverOption) *GraphResolver {
	r := &GraphResolver{lookup: lookup}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadOrder implements Resolver.
func (r *GraphResolver) LoadOrder(domain string) []string {
	order, err := r.resolve(domain)
	if err != nil {
		log.Errorw("Unable to resolve load order", "component", domain, "error", err)
		return nil
	}
	return order
}

// LoadOrderSet implements Resolver. Chains that include GroupDomain go after
// those that do not, so components publishing state are set up before
// components grouping it.
func (r *GraphResolver) LoadOrderSet(domains []string) []string {
	requested := append([]string(nil), domains...)
	sort.Strings(requested)
	requested = slices.Compact(requested)

	var chains [][]string
	for _, domain := range requested {
		if order := r.LoadOrder(domain); len(order) > 0 {
			chains = append(chains, order)
		}
	}
	sort.SliceStable(chains, func(i, j int) bool {
		return !slices.Contains(chains[i], GroupDomain) && slices.Contains(chains[j], GroupDomain)
	})

	seen := make(map[string]struct{})
	var result []string
	for _, chain := range chains {
		for _, id := range chain {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}

	return r.promote(result)
}

// promote moves priority domains to the front. Dependencies of a promoted
// domain must themselves be promoted for the order to stay valid, so only
// dependency-free descriptors are moved.
func (r *GraphResolver) promote(result []string) []string {
	for i := len(r.priority) - 1; i >= 0; i-- {
		id := r.priority[i]
		idx := slices.Index(result, id)
		if idx <= 0 {
			continue
		}
		if d, ok := r.lookup.Lookup(id); !ok || len(d.Dependencies) > 0 {
			continue
		}
		result = slices.Delete(result, idx, idx+1)
		result = slices.Insert(result, 0, id)
	}
	return result
}

// resolve walks the dependencies of domain depth first, using three-colour
// marking to detect cycles: white (unvisited), gray (on the current path),
// black (done).
func (r *GraphResolver) resolve(domain string) ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	parent := make(map[string]string)
	var order []string

	var visit func(id string) error
	visit = func(id string) error {
		d, ok := r.lookup.Lookup(id)
		if !ok {
			if p, has := parent[id]; has {
				return errors.ErrComponentNotFound.WithMessagef("component %q depends on %q which is not registered", p, id)
			}
			return errors.ErrComponentNotFound.WithMessagef("component %q is not registered", id)
		}

		color[id] = gray
		for _, dep := range d.Dependencies {
			switch color[dep] {
			case gray:
				return errors.ErrDependencyUnresolved.WithMessagef("circular dependency detected: %s", cyclePath(id, dep, parent))
			case white:
				parent[dep] = id
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	if err := visit(domain); err != nil {
		return nil, err
	}
	return order, nil
}

// cyclePath renders the cycle closed by the edge from -> to.
func cyclePath(from, to string, parent map[string]string) string {
	path := []string{to}
	for current := from; current != to; {
		path = append(path, current)
		next, ok := parent[current]
		if !ok {
			break
		}
		current = next
	}
	path = append(path, to)
	slices.Reverse(path)
	return strings.Join(path, " -> ")
}
