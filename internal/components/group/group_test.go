package group

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/errors"
)

func TestEntityIDFor(t *testing.T) {
	tests := map[string]string{
		"living_room":  "group.living_room",
		"Living Room":  "group.living_room",
		" Kids' room ": "group.kids_room",
	}
	for name, want := range tests {
		assert.Equal(t, want, EntityIDFor(name), name)
	}
}

func TestRegistry_Set(t *testing.T) {
	reg := NewRegistry()

	g, err := reg.Set("Living Room", []string{"Light.Bowl", " light.ceiling", "light.bowl", ""})
	require.NoError(t, err)
	assert.Equal(t, "group.living_room", g.EntityID)
	assert.Equal(t, []string{"light.bowl", "light.ceiling"}, g.Members)

	_, err = reg.Set("bad", []string{"not-an-entity"})
	assert.True(t, stderrors.Is(err, errors.ErrInvalidEntityID))

	_, err = reg.Set("!!!", nil)
	assert.Error(t, err)

	assert.Equal(t, []string{"group.living_room"}, reg.EntityIDs())
	got, ok := reg.Get("GROUP.LIVING_ROOM")
	require.True(t, ok)
	assert.Same(t, g, got)
}

func TestRegistry_Expand(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Set("downstairs", []string{"light.hall", "group.upstairs"})
	require.NoError(t, err)
	_, err = reg.Set("upstairs", []string{"light.bed", "group.downstairs", "light.hall"})
	require.NoError(t, err)

	// 相互嵌套的分组只展开一次
	assert.Equal(t,
		[]string{"light.hall", "light.bed", "switch.fan"},
		reg.Expand("group.downstairs", "switch.fan", "light.bed"))
	assert.Equal(t, []string{"sun.sun"}, reg.Expand("sun.sun"))
	assert.Empty(t, reg.Expand())
}

func TestSetup(t *testing.T) {
	rt := core.NewRuntime()
	rt.Config = core.Config{
		"group": {
			"living_room": "light.bowl, light.ceiling",
			"bedroom":     []any{"light.bed", "media_player.tv"},
			"broken":      map[string]any{"x": 1},
		},
		"group 2": {
			"garden": []string{"switch.sprinkler"},
		},
	}

	require.NoError(t, Setup(context.Background(), rt, rt.Config.Section("group")))

	reg, ok := FromRuntime(rt)
	require.True(t, ok)
	assert.Equal(t, []string{"group.bedroom", "group.garden", "group.living_room"}, reg.EntityIDs())

	g, ok := reg.Get("group.living_room")
	require.True(t, ok)
	assert.Equal(t, []string{"light.bowl", "light.ceiling"}, g.Members)
}

func TestSetup_WithoutRuntimeConfig(t *testing.T) {
	rt := core.NewRuntime()
	require.NoError(t, Setup(context.Background(), rt, core.Options{"office": "light.desk"}))

	reg, ok := FromRuntime(rt)
	require.True(t, ok)
	assert.Equal(t, []string{"group.office"}, reg.EntityIDs())
}

func TestFromRuntime_Missing(t *testing.T) {
	_, ok := FromRuntime(core.NewRuntime())
	assert.False(t, ok)
}
