// Package core holds the runtime state shared by the bootstrapper and the
// components it sets up.
package core

import (
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// DomainKey is the reserved section holding core settings.
const DomainKey = "hestia"

// Options is the configuration of one section.
type Options map[string]any

// Config maps section names to options. A section name is a domain,
// optionally followed by a space and an instance label ("light 2").
type Config map[string]Options

// NewConfig converts a loosely typed mapping into a Config. Nil or
// non-mapping section values become empty options.
func NewConfig(raw map[string]any) Config {
	cfg := make(Config, len(raw))
	for key, value := range raw {
		opts, _ := ToOptions(value)
		cfg[key] = opts
	}
	return cfg
}

// ToOptions converts v into Options. ok is false, and the result empty but
// usable, when v is not a mapping.
func ToOptions(v any) (Options, bool) {
	switch m := v.(type) {
	case Options:
		if m == nil {
			return Options{}, false
		}
		return m, true
	case map[string]any:
		if m == nil {
			return Options{}, false
		}
		return Options(m), true
	case map[any]any:
		return Options(cast.ToStringMap(m)), true
	default:
		return Options{}, false
	}
}

// Section returns the options of name, or empty options. It never returns nil.
func (c Config) Section(name string) Options {
	if opts := c[name]; opts != nil {
		return opts
	}
	return Options{}
}

// Instances returns every section configuring domain, keyed by section name.
func (c Config) Instances(domain string) map[string]Options {
	out := make(map[string]Options)
	for key, opts := range c {
		if DomainOf(key) == domain {
			if opts == nil {
				opts = Options{}
			}
			out[key] = opts
		}
	}
	return out
}

// Domains returns the distinct component domains named by the section keys,
// sorted. The core section is excluded.
func (c Config) Domains() []string {
	seen := make(map[string]struct{}, len(c))
	for key := range c {
		if key == DomainKey {
			continue
		}
		if d := DomainOf(key); d != "" {
			seen[d] = struct{}{}
		}
	}

	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// DomainOf strips the instance label from a section name.
func DomainOf(key string) string {
	domain, _, _ := strings.Cut(strings.TrimSpace(key), " ")
	return domain
}
