package logger

import (
	"context"

	"github.com/kart-io/logger/core"
	"go.opentelemetry.io/otel/trace"
)

type contextKey int

const fieldsKey contextKey = iota

// WithComponent tags records logged through FromContext with the component domain.
func WithComponent(ctx context.Context, domain string) context.Context {
	if domain == "" {
		return ctx
	}
	return WithFields(ctx, "component", domain)
}

// WithFields adds key/value pairs to the logging fields carried by ctx.
// A trailing key without a value is dropped.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	if len(keysAndValues)%2 != 0 {
		keysAndValues = keysAndValues[:len(keysAndValues)-1]
	}
	if len(keysAndValues) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	fields := make([]interface{}, 0, len(existing)+len(keysAndValues))
	fields = append(fields, existing...)
	fields = append(fields, keysAndValues...)
	return context.WithValue(ctx, fieldsKey, fields)
}

// ContextFields returns the fields stored in ctx, without trace identifiers.
func ContextFields(ctx context.Context) []interface{} {
	fields, _ := ctx.Value(fieldsKey).([]interface{})
	return fields
}

// FromContext returns Named(namespace) enriched with the fields carried by
// ctx and, when a span is active, its trace and span ids.
func FromContext(ctx context.Context, namespace string) core.Logger {
	fields := append([]interface{}(nil), ContextFields(ctx)...)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}

	l := Named(namespace)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
