package logger

import (
	"context"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
)

// NamespaceKey is the structured field carrying a logger's namespace.
const NamespaceKey = "logger"

// Named returns a logger for a dotted namespace such as "hestia.components.light".
// Each record is checked against the active Filter before reaching the
// global logger, so loggers created before logging is configured still
// honour later configuration.
func Named(namespace string) core.Logger {
	return &namedLogger{namespace: namespace}
}

type namedLogger struct {
	namespace string
	fields    []interface{}
	ctx       context.Context
	skip      int
}

var _ core.Logger = (*namedLogger)(nil)

func (l *namedLogger) target() core.Logger {
	kv := make([]interface{}, 0, len(l.fields)+2)
	kv = append(kv, NamespaceKey, l.namespace)
	kv = append(kv, l.fields...)

	var base core.Logger
	if l.ctx != nil {
		base = logger.Global().WithCtx(l.ctx, kv...)
	} else {
		base = logger.Global().With(kv...)
	}
	return base.WithCallerSkip(1 + l.skip)
}

func (l *namedLogger) enabled(level core.Level) bool {
	return admitted(l.namespace, SeverityOf(level))
}

func (l *namedLogger) clone() *namedLogger {
	c := *l
	c.fields = append([]interface{}(nil), l.fields...)
	return &c
}

func (l *namedLogger) Debug(args ...interface{}) {
	if l.enabled(core.DebugLevel) {
		l.target().Debug(args...)
	}
}

func (l *namedLogger) Info(args ...interface{}) {
	if l.enabled(core.InfoLevel) {
		l.target().Info(args...)
	}
}

func (l *namedLogger) Warn(args ...interface{}) {
	if l.enabled(core.WarnLevel) {
		l.target().Warn(args...)
	}
}

func (l *namedLogger) Error(args ...interface{}) {
	if l.enabled(core.ErrorLevel) {
		l.target().Error(args...)
	}
}

// Fatal always reaches the sink; the process exits regardless of filtering.
func (l *namedLogger) Fatal(args ...interface{}) {
	l.target().Fatal(args...)
}

func (l *namedLogger) Debugf(template string, args ...interface{}) {
	if l.enabled(core.DebugLevel) {
		l.target().Debugf(template, args...)
	}
}

func (l *namedLogger) Infof(template string, args ...interface{}) {
	if l.enabled(core.InfoLevel) {
		l.target().Infof(template, args...)
	}
}

func (l *namedLogger) Warnf(template string, args ...interface{}) {
	if l.enabled(core.WarnLevel) {
		l.target().Warnf(template, args...)
	}
}

func (l *namedLogger) Errorf(template string, args ...interface{}) {
	if l.enabled(core.ErrorLevel) {
		l.target().Errorf(template, args...)
	}
}

func (l *namedLogger) Fatalf(template string, args ...interface{}) {
	l.target().Fatalf(template, args...)
}

func (l *namedLogger) Debugw(msg string, keysAndValues ...interface{}) {
	if l.enabled(core.DebugLevel) {
		l.target().Debugw(msg, keysAndValues...)
	}
}

func (l *namedLogger) Infow(msg string, keysAndValues ...interface{}) {
	if l.enabled(core.InfoLevel) {
		l.target().Infow(msg, keysAndValues...)
	}
}

func (l *namedLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if l.enabled(core.WarnLevel) {
		l.target().Warnw(msg, keysAndValues...)
	}
}

func (l *namedLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if l.enabled(core.ErrorLevel) {
		l.target().Errorw(msg, keysAndValues...)
	}
}

func (l *namedLogger) Fatalw(msg string, keysAndValues ...interface{}) {
	l.target().Fatalw(msg, keysAndValues...)
}

func (l *namedLogger) With(keyValues ...interface{}) core.Logger {
	c := l.clone()
	c.fields = append(c.fields, keyValues...)
	return c
}

func (l *namedLogger) WithCtx(ctx context.Context, keyValues ...interface{}) core.Logger {
	c := l.clone()
	c.ctx = ctx
	c.fields = append(c.fields, keyValues...)
	return c
}

func (l *namedLogger) WithCallerSkip(skip int) core.Logger {
	c := l.clone()
	c.skip += skip
	return c
}

// SetLevel adjusts the underlying global logger; namespace thresholds are
// controlled through SetFilter.
func (l *namedLogger) SetLevel(level core.Level) {
	logger.Global().SetLevel(level)
}

func (l *namedLogger) Flush() error {
	return logger.Global().Flush()
}
