package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/hestia/pkg/errors"
)

func TestOverrideRegistry_Overwrite(t *testing.T) {
	tests := []struct {
		name     string
		entityID string
		wantErr  bool
	}{
		{name: "valid", entityID: "light.kitchen"},
		{name: "upper case normalized", entityID: "Light.Kitchen"},
		{name: "missing object id", entityID: "light", wantErr: true},
		{name: "empty", entityID: "", wantErr: true},
		{name: "spaces", entityID: "light.living room", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewOverrideRegistry()
			err := r.Overwrite(tt.entityID, map[string]any{"hidden": true})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrInvalidEntityID.Code))
				assert.Equal(t, 0, r.Len())
				return
			}
			require.NoError(t, err)
			got, ok := r.Get("light.kitchen")
			require.True(t, ok)
			assert.Equal(t, true, got["hidden"])
		})
	}
}

func TestOverrideRegistry_MergeAndCopy(t *testing.T) {
	r := NewOverrideRegistry()
	require.NoError(t, r.Overwrite("sensor.outside", map[string]any{"friendly_name": "Outside", "hidden": false}))
	require.NoError(t, r.Overwrite("sensor.outside", map[string]any{"hidden": true}))

	got, ok := r.Get("sensor.outside")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"friendly_name": "Outside", "hidden": true}, got)

	// 返回副本，修改不影响注册表
	got["hidden"] = false
	again, _ := r.Get("sensor.outside")
	assert.Equal(t, true, again["hidden"])

	_, ok = r.Get("sensor.unknown")
	assert.False(t, ok)
}

func TestOverrideRegistry_Apply(t *testing.T) {
	r := NewOverrideRegistry()
	require.NoError(t, r.Overwrite("switch.fan", map[string]any{"icon": "mdi:fan"}))

	base := map[string]any{"icon": "mdi:power", "state": "on"}
	got := r.Apply("switch.fan", base)

	assert.Equal(t, map[string]any{"icon": "mdi:fan", "state": "on"}, got)
	assert.Equal(t, "mdi:power", base["icon"])

	assert.Equal(t, map[string]any{}, r.Apply("switch.none", nil))
}

func TestOverrideRegistry_EntityIDs(t *testing.T) {
	r := NewOverrideRegistry()
	require.NoError(t, r.Overwrite("switch.b", nil))
	require.NoError(t, r.Overwrite("light.a", nil))

	assert.Equal(t, []string{"light.a", "switch.b"}, r.EntityIDs())
}

func TestOverrideRegistry_Concurrent(t *testing.T) {
	r := NewOverrideRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Overwrite("light.shared", map[string]any{"n": i})
			_, _ = r.Get("light.shared")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, r.Len())
}
