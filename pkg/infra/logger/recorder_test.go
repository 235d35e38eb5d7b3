package logger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
)

type entry struct {
	level  core.Level
	msg    string
	fields map[string]interface{}
}

type sink struct {
	mu      sync.Mutex
	entries []entry
	level   core.Level
}

type recorder struct {
	sink   *sink
	fields []interface{}
}

func newRecorder() *recorder {
	return &recorder{sink: &sink{level: core.DebugLevel}}
}

// installRecorder makes a fresh recorder the global logger for the test.
func installRecorder(t *testing.T) *recorder {
	t.Helper()
	prev := logger.Global()
	r := newRecorder()
	logger.SetGlobal(r)
	t.Cleanup(func() {
		logger.SetGlobal(prev)
		SetFilter(nil)
	})
	return r
}

func (r *recorder) Entries() []entry {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	return append([]entry(nil), r.sink.entries...)
}

func (r *recorder) record(level core.Level, msg string, kv []interface{}) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	if level < r.sink.level {
		return
	}
	fields := map[string]interface{}{}
	all := append(append([]interface{}{}, r.fields...), kv...)
	for i := 0; i+1 < len(all); i += 2 {
		fields[fmt.Sprint(all[i])] = all[i+1]
	}
	r.sink.entries = append(r.sink.entries, entry{level: level, msg: msg, fields: fields})
}

func (r *recorder) Debug(args ...interface{}) { r.record(core.DebugLevel, fmt.Sprint(args...), nil) }
func (r *recorder) Info(args ...interface{})  { r.record(core.InfoLevel, fmt.Sprint(args...), nil) }
func (r *recorder) Warn(args ...interface{})  { r.record(core.WarnLevel, fmt.Sprint(args...), nil) }
func (r *recorder) Error(args ...interface{}) { r.record(core.ErrorLevel, fmt.Sprint(args...), nil) }
func (r *recorder) Fatal(args ...interface{}) { r.record(core.FatalLevel, fmt.Sprint(args...), nil) }

func (r *recorder) Debugf(f string, args ...interface{}) {
	r.record(core.DebugLevel, fmt.Sprintf(f, args...), nil)
}

func (r *recorder) Infof(f string, args ...interface{}) {
	r.record(core.InfoLevel, fmt.Sprintf(f, args...), nil)
}

func (r *recorder) Warnf(f string, args ...interface{}) {
	r.record(core.WarnLevel, fmt.Sprintf(f, args...), nil)
}

func (r *recorder) Errorf(f string, args ...interface{}) {
	r.record(core.ErrorLevel, fmt.Sprintf(f, args...), nil)
}

func (r *recorder) Fatalf(f string, args ...interface{}) {
	r.record(core.FatalLevel, fmt.Sprintf(f, args...), nil)
}

func (r *recorder) Debugw(msg string, kv ...interface{}) { r.record(core.DebugLevel, msg, kv) }
func (r *recorder) Infow(msg string, kv ...interface{})  { r.record(core.InfoLevel, msg, kv) }
func (r *recorder) Warnw(msg string, kv ...interface{})  { r.record(core.WarnLevel, msg, kv) }
func (r *recorder) Errorw(msg string, kv ...interface{}) { r.record(core.ErrorLevel, msg, kv) }
func (r *recorder) Fatalw(msg string, kv ...interface{}) { r.record(core.FatalLevel, msg, kv) }

func (r *recorder) With(kv ...interface{}) core.Logger {
	return &recorder{sink: r.sink, fields: append(append([]interface{}{}, r.fields...), kv...)}
}

func (r *recorder) WithCtx(_ context.Context, kv ...interface{}) core.Logger { return r.With(kv...) }
func (r *recorder) WithCallerSkip(int) core.Logger                           { return r }

func (r *recorder) SetLevel(level core.Level) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	r.sink.level = level
}

func (r *recorder) Flush() error { return nil }
