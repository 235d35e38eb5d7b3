// Package logger layers namespaced, severity-filtered loggers over the
// kart-io/logger global logger.
package logger

import (
	"strings"

	"github.com/kart-io/logger/core"

	"github.com/kart-io/hestia/pkg/errors"
)

// Numeric severities, ordered from most to least severe.
const (
	SeverityCritical = 50
	SeverityFatal    = 50
	SeverityError    = 40
	SeverityWarning  = 30
	SeverityWarn     = 30
	SeverityInfo     = 20
	SeverityDebug    = 10
	SeverityNotSet   = 0
)

var severities = map[string]int{
	"CRITICAL": SeverityCritical,
	"FATAL":    SeverityFatal,
	"ERROR":    SeverityError,
	"WARNING":  SeverityWarning,
	"WARN":     SeverityWarn,
	"INFO":     SeverityInfo,
	"DEBUG":    SeverityDebug,
	"NOTSET":   SeverityNotSet,
}

// ParseSeverity maps a case-insensitive severity name to its numeric value.
func ParseSeverity(name string) (int, error) {
	if s, ok := severities[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, errors.ErrUnknownSeverity.WithMessagef("unknown log severity %q", name)
}

// SeverityOf converts a logger level to its numeric severity.
func SeverityOf(level core.Level) int {
	switch level {
	case core.DebugLevel:
		return SeverityDebug
	case core.InfoLevel:
		return SeverityInfo
	case core.WarnLevel:
		return SeverityWarning
	case core.ErrorLevel:
		return SeverityError
	case core.FatalLevel:
		return SeverityFatal
	default:
		return SeverityNotSet
	}
}

// LevelOf converts a numeric severity to the closest logger level at or below it.
func LevelOf(severity int) core.Level {
	switch {
	case severity >= SeverityFatal:
		return core.FatalLevel
	case severity >= SeverityError:
		return core.ErrorLevel
	case severity >= SeverityWarning:
		return core.WarnLevel
	case severity >= SeverityInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
