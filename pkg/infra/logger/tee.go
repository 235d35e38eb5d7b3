package logger

import (
	"context"
	"errors"

	"github.com/kart-io/logger/core"
)

// Tee returns a logger that writes every record to each of sinks.
// Each sink keeps its own level, so a console sink at INFO can sit next to
// an error-log file at WARN.
func Tee(sinks ...core.Logger) core.Logger {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return teeLogger(sinks)
}

type teeLogger []core.Logger

func (t teeLogger) each(fn func(core.Logger)) {
	for _, l := range t {
		fn(l)
	}
}

// fatal writes to every sink at error level, then lets the last one exit.
func (t teeLogger) fatal(errorFn, fatalFn func(core.Logger)) {
	if len(t) == 0 {
		return
	}
	for _, l := range t[:len(t)-1] {
		errorFn(l)
		_ = l.Flush()
	}
	fatalFn(t[len(t)-1])
}

func (t teeLogger) Debug(args ...interface{}) { t.each(func(l core.Logger) { l.Debug(args...) }) }
func (t teeLogger) Info(args ...interface{})  { t.each(func(l core.Logger) { l.Info(args...) }) }
func (t teeLogger) Warn(args ...interface{})  { t.each(func(l core.Logger) { l.Warn(args...) }) }
func (t teeLogger) Error(args ...interface{}) { t.each(func(l core.Logger) { l.Error(args...) }) }
func (t teeLogger) Fatal(args ...interface{}) {
	t.fatal(func(l core.Logger) { l.Error(args...) }, func(l core.Logger) { l.Fatal(args...) })
}

func (t teeLogger) Debugf(template string, args ...interface{}) {
	t.each(func(l core.Logger) { l.Debugf(template, args...) })
}

func (t teeLogger) Infof(template string, args ...interface{}) {
	t.each(func(l core.Logger) { l.Infof(template, args...) })
}

func (t teeLogger) Warnf(template string, args ...interface{}) {
	t.each(func(l core.Logger) { l.Warnf(template, args...) })
}

func (t teeLogger) Errorf(template string, args ...interface{}) {
	t.each(func(l core.Logger) { l.Errorf(template, args...) })
}

func (t teeLogger) Fatalf(template string, args ...interface{}) {
	t.fatal(func(l core.Logger) { l.Errorf(template, args...) }, func(l core.Logger) { l.Fatalf(template, args...) })
}

func (t teeLogger) Debugw(msg string, kv ...interface{}) {
	t.each(func(l core.Logger) { l.Debugw(msg, kv...) })
}

func (t teeLogger) Infow(msg string, kv ...interface{}) {
	t.each(func(l core.Logger) { l.Infow(msg, kv...) })
}

func (t teeLogger) Warnw(msg string, kv ...interface{}) {
	t.each(func(l core.Logger) { l.Warnw(msg, kv...) })
}

func (t teeLogger) Errorw(msg string, kv ...interface{}) {
	t.each(func(l core.Logger) { l.Errorw(msg, kv...) })
}

func (t teeLogger) Fatalw(msg string, kv ...interface{}) {
	t.fatal(func(l core.Logger) { l.Errorw(msg, kv...) }, func(l core.Logger) { l.Fatalw(msg, kv...) })
}

func (t teeLogger) With(kv ...interface{}) core.Logger {
	return t.derive(func(l core.Logger) core.Logger { return l.With(kv...) })
}

func (t teeLogger) WithCtx(ctx context.Context, kv ...interface{}) core.Logger {
	return t.derive(func(l core.Logger) core.Logger { return l.WithCtx(ctx, kv...) })
}

func (t teeLogger) WithCallerSkip(skip int) core.Logger {
	return t.derive(func(l core.Logger) core.Logger { return l.WithCallerSkip(skip) })
}

func (t teeLogger) derive(fn func(core.Logger) core.Logger) core.Logger {
	out := make(teeLogger, len(t))
	for i, l := range t {
		out[i] = fn(l)
	}
	return out
}

// SetLevel applies level to every sink.
func (t teeLogger) SetLevel(level core.Level) {
	t.each(func(l core.Logger) { l.SetLevel(level) })
}

func (t teeLogger) Flush() error {
	var errs []error
	for _, l := range t {
		if err := l.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
