package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func setupTracer(t *testing.T) trace.Tracer {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp.Tracer("test")
}

func TestInjectTraceContextWithSpan(t *testing.T) {
	tracer := setupTracer(t)

	ctx, span := tracer.Start(context.Background(), "detect-location")
	defer span.End()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/json", nil).WithContext(ctx)
	NewClient(time.Second, 0).injectTraceContext(req)

	// version-trace_id-parent_id-flags
	assert.Len(t, req.Header.Get("traceparent"), 55)
}

func TestInjectTraceContextWithoutSpan(t *testing.T) {
	setupTracer(t)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/json", nil)
	NewClient(time.Second, 0).injectTraceContext(req)

	assert.Empty(t, req.Header.Get("traceparent"))
}

func TestInjectTraceContextNilRequest(t *testing.T) {
	assert.NotPanics(t, func() {
		NewClient(time.Second, 0).injectTraceContext(nil)
	})
}

func TestDoRequestPropagatesTrace(t *testing.T) {
	tracer := setupTracer(t)

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, span := tracer.Start(context.Background(), "detect-location")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := NewClient(time.Second, 0).DoRequest(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Contains(t, got, span.SpanContext().TraceID().String())
}
