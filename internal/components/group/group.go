// Package group is the coordination component. It collects named groups of
// entity ids that other components can address as one entity:
//
//	group:
//	  living_room: light.bowl, light.ceiling
//	  bedroom:
//	    - light.bed
//	    - media_player.tv
package group

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/component"
	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/validator"
)

// Domain is the component domain.
const Domain = component.GroupDomain

var (
	log = applog.Named("hestia.components.group")

	slugInvalid = regexp.MustCompile(`[^a-z0-9_]+`)
)

// Group is a named set of entity ids.
type Group struct {
	Name     string
	EntityID string
	Members  []string
}

// Registry holds the configured groups keyed by entity id.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]*Group
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// EntityIDFor returns the entity id of the group called name.
func EntityIDFor(name string) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_"), "_")
	return Domain + "." + slug
}

// Set creates or replaces the group called name. Members are lower-cased,
// deduplicated and must be valid entity ids.
func (r *Registry) Set(name string, members []string) (*Group, error) {
	g := &Group{Name: name, EntityID: EntityIDFor(name)}
	if err := validator.Var(g.EntityID, validator.TagEntityID); err != nil {
		return nil, errors.ErrInvalidEntityID.WithMessagef("invalid group name %q", name).WithCause(err)
	}

	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		id := strings.ToLower(strings.TrimSpace(m))
		if id == "" {
			continue
		}
		if err := validator.Var(id, validator.TagEntityID); err != nil {
			return nil, errors.ErrInvalidEntityID.WithMessagef("group %s: invalid member %q", name, m).WithCause(err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		g.Members = append(g.Members, id)
	}

	r.mu.Lock()
	r.groups[g.EntityID] = g
	r.mu.Unlock()
	return g, nil
}

// Get returns the group with the given entity id.
func (r *Registry) Get(entityID string) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[strings.ToLower(entityID)]
	return g, ok
}

// EntityIDs returns the group entity ids, sorted.
func (r *Registry) EntityIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Expand replaces group entity ids in ids by their members, recursively,
// keeping the first occurrence of every entity. Groups nesting each other
// are expanded once.
func (r *Registry) Expand(ids ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		out      []string
		seen     = make(map[string]struct{})
		expanded = make(map[string]struct{})
		walk     func(ids []string)
	)
	walk = func(ids []string) {
		for _, id := range ids {
			id = strings.ToLower(id)
			if g, ok := r.groups[id]; ok {
				if _, done := expanded[id]; done {
					continue
				}
				expanded[id] = struct{}{}
				walk(g.Members)
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	walk(ids)
	return out
}

// Descriptor describes the group component.
func Descriptor() component.Descriptor {
	return component.Descriptor{
		Domain: Domain,
		Setup:  Setup,
	}
}

// Setup reads every group section of the runtime configuration, or opts
// when the runtime carries none, into a Registry stored on rt. Invalid
// groups are logged and skipped.
func Setup(_ context.Context, rt *core.Runtime, opts core.Options) error {
	sections := rt.Config.Instances(Domain)
	if len(sections) == 0 {
		sections = map[string]core.Options{Domain: opts}
	}

	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	reg := NewRegistry()
	for _, key := range keys {
		for name, raw := range sections[key] {
			members, err := parseMembers(raw)
			if err == nil {
				_, err = reg.Set(name, members)
			}
			if err != nil {
				log.Errorw("Ignoring invalid group", "group", name, "error", err)
			}
		}
	}

	rt.Store(Domain, reg)
	log.Infow("Groups loaded", "count", len(reg.EntityIDs()))
	return nil
}

// FromRuntime returns the Registry stored by Setup.
func FromRuntime(rt *core.Runtime) (*Registry, bool) {
	v, ok := rt.Load(Domain)
	if !ok {
		return nil, false
	}
	reg, ok := v.(*Registry)
	return reg, ok
}

// parseMembers accepts a comma separated string or a list.
func parseMembers(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Split(v, ","), nil
	default:
		members, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, errors.ErrInvalidConfig.WithMessage("group members must be a list or comma separated string").WithCause(err)
		}
		return members, nil
	}
}
