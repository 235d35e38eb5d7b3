// Package logger is the component that installs the namespace severity
// filter from its configuration section:
//
//	logger:
//	  default: critical
//	  logs:
//	    hestia.components: info
//	    hestia.components.rfxtrx: debug
package logger

import (
	"context"

	"github.com/spf13/cast"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/component"
	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
)

// Domain is the component domain.
const Domain = "logger"

// Configuration keys.
const (
	ConfDefault = "default"
	ConfLogs    = "logs"
)

// Descriptor describes the logger component.
func Descriptor() component.Descriptor {
	return component.Descriptor{
		Domain: Domain,
		Setup:  Setup,
		Worker: component.WorkerShared,
	}
}

// Setup builds a filter from opts and attaches it to every named logger.
func Setup(_ context.Context, rt *core.Runtime, opts core.Options) error {
	rules, err := RulesFrom(opts)
	if err != nil {
		return err
	}

	f, err := applog.NewFilter(rules)
	if err != nil {
		return err
	}
	applog.SetFilter(f)
	rt.Store(Domain, f)
	return nil
}

// RulesFrom reads filter rules from a logger section.
func RulesFrom(opts core.Options) (applog.Rules, error) {
	var rules applog.Rules

	if v, ok := opts[ConfDefault]; ok && v != nil {
		name, err := cast.ToStringE(v)
		if err != nil {
			return rules, errors.ErrInvalidConfig.WithMessagef("logger.%s must be a severity name", ConfDefault).WithCause(err)
		}
		rules.Default = name
	}

	if v, ok := opts[ConfLogs]; ok && v != nil {
		logs, err := cast.ToStringMapStringE(v)
		if err != nil {
			return rules, errors.ErrInvalidConfig.WithMessagef("logger.%s must map namespaces to severities", ConfLogs).WithCause(err)
		}
		rules.Logs = logs
	}
	return rules, nil
}

// ActiveFilter returns the filter installed by Setup on rt.
func ActiveFilter(rt *core.Runtime) (*applog.Filter, bool) {
	v, ok := rt.Load(Domain)
	if !ok {
		return nil, false
	}
	f, ok := v.(*applog.Filter)
	return f, ok
}
