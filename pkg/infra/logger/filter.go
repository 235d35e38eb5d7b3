package logger

import (
	"sort"
	"strings"
	"sync/atomic"
)

// Rules is the configuration of a Filter: a default severity name plus
// per-namespace overrides.
type Rules struct {
	Default string            `json:"default" mapstructure:"default"`
	Logs    map[string]string `json:"logs" mapstructure:"logs"`
}

type override struct {
	prefix    string
	threshold int
}

// Filter admits a record when its severity reaches the threshold of the
// longest namespace prefix override matching it, or the default threshold
// when none matches.
type Filter struct {
	threshold int
	overrides []override
}

// NewFilter builds a Filter. An empty default means DEBUG.
func NewFilter(rules Rules) (*Filter, error) {
	f := &Filter{threshold: SeverityDebug}
	if rules.Default != "" {
		threshold, err := ParseSeverity(rules.Default)
		if err != nil {
			return nil, err
		}
		f.threshold = threshold
	}

	for prefix, name := range rules.Logs {
		threshold, err := ParseSeverity(name)
		if err != nil {
			return nil, err
		}
		f.overrides = append(f.overrides, override{prefix: prefix, threshold: threshold})
	}

	sort.Slice(f.overrides, func(i, j int) bool {
		a, b := f.overrides[i].prefix, f.overrides[j].prefix
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return f, nil
}

// Threshold returns the severity a record from namespace must reach.
func (f *Filter) Threshold(namespace string) int {
	for _, o := range f.overrides {
		if strings.HasPrefix(namespace, o.prefix) {
			return o.threshold
		}
	}
	return f.threshold
}

// Admit reports whether a record of the given severity from namespace passes.
func (f *Filter) Admit(namespace string, severity int) bool {
	return severity >= f.Threshold(namespace)
}

var activeFilter atomic.Pointer[Filter]

// SetFilter attaches f to every logger returned by Named. A nil filter admits everything.
func SetFilter(f *Filter) {
	activeFilter.Store(f)
}

// ActiveFilter returns the filter currently attached, or nil.
func ActiveFilter() *Filter {
	return activeFilter.Load()
}

func admitted(namespace string, severity int) bool {
	f := activeFilter.Load()
	return f == nil || f.Admit(namespace, severity)
}
