package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/hestia/internal/core"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
)

func resetFilter(t *testing.T) {
	t.Helper()
	prev := applog.ActiveFilter()
	t.Cleanup(func() { applog.SetFilter(prev) })
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		opts    core.Options
		checks  map[string]int
		wantErr bool
	}{
		{
			name:   "empty section defaults to debug",
			opts:   core.Options{},
			checks: map[string]int{"hestia.components.light": applog.SeverityDebug},
		},
		{
			name: "longest prefix wins",
			opts: core.Options{
				"default": "critical",
				"logs": map[string]any{
					"hestia.components":        "info",
					"hestia.components.rfxtrx": "debug",
					"hestia.components.camera": "critical",
				},
			},
			checks: map[string]int{
				"hestia.components.rfxtrx.sensor": applog.SeverityDebug,
				"hestia.components.camera":        applog.SeverityCritical,
				"hestia.components.light":         applog.SeverityInfo,
				"hestia.bootstrap":                applog.SeverityCritical,
			},
		},
		{
			name: "yaml style nested map",
			opts: core.Options{
				"default": "warning",
				"logs":    map[any]any{"hestia.core": "error"},
			},
			checks: map[string]int{
				"hestia.core":      applog.SeverityError,
				"hestia.bootstrap": applog.SeverityWarning,
			},
		},
		{name: "unknown default", opts: core.Options{"default": "loud"}, wantErr: true},
		{name: "unknown namespace severity", opts: core.Options{"logs": map[string]any{"x": "verbose"}}, wantErr: true},
		{name: "logs not a mapping", opts: core.Options{"logs": 42}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFilter(t)
			applog.SetFilter(nil)
			rt := core.NewRuntime()

			err := Setup(context.Background(), rt, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, applog.ActiveFilter())
				return
			}
			require.NoError(t, err)

			f, ok := ActiveFilter(rt)
			require.True(t, ok)
			assert.Same(t, f, applog.ActiveFilter())
			for ns, want := range tt.checks {
				assert.Equal(t, want, f.Threshold(ns), ns)
			}
		})
	}
}

func TestDescriptor(t *testing.T) {
	d := Descriptor()
	assert.Equal(t, Domain, d.Domain)
	assert.Empty(t, d.Dependencies)
	assert.False(t, d.WantsWorker())
	assert.NotNil(t, d.Setup)
}
