package dt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTimeZone(t *testing.T) {
	loc, err := GetTimeZone("America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", loc.String())

	_, err = GetTimeZone("Not/AZone")
	assert.Error(t, err)

	_, err = GetTimeZone("")
	assert.Error(t, err)
}

func TestSetDefaultTimeZone(t *testing.T) {
	t.Cleanup(func() { SetDefaultTimeZone(time.UTC) })

	assert.Equal(t, time.UTC, DefaultTimeZone())

	loc, err := GetTimeZone("Europe/Amsterdam")
	require.NoError(t, err)
	SetDefaultTimeZone(loc)
	assert.Equal(t, loc, DefaultTimeZone())
	assert.Equal(t, loc, Now().Location())

	SetDefaultTimeZone(nil)
	assert.Equal(t, loc, DefaultTimeZone())
}
