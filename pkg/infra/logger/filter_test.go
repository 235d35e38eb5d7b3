package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/hestia/pkg/errors"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"critical", 50},
		{"FATAL", 50},
		{"error", 40},
		{"Warning", 30},
		{"warn", 30},
		{"info", 20},
		{"debug", 10},
		{"notset", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSeverity("verbose")
	assert.True(t, errors.IsCode(err, errors.ErrUnknownSeverity.Code))
}

func TestFilterLongestPrefixWins(t *testing.T) {
	f, err := NewFilter(Rules{
		Default: "warning",
		Logs: map[string]string{
			"hestia.components":       "error",
			"hestia.components.light": "debug",
		},
	})
	require.NoError(t, err)

	tests := []struct {
		namespace string
		severity  int
		want      bool
	}{
		{"hestia.components.light", SeverityDebug, true},
		{"hestia.components.light.hue", SeverityInfo, true},
		{"hestia.components.switch", SeverityWarning, false},
		{"hestia.components.switch", SeverityError, true},
		{"hestia.core", SeverityInfo, false},
		{"hestia.core", SeverityWarning, true},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Admit(tt.namespace, tt.severity))
		})
	}
}

func TestFilterDefaultsToDebug(t *testing.T) {
	f, err := NewFilter(Rules{})
	require.NoError(t, err)

	assert.Equal(t, SeverityDebug, f.Threshold("anything"))
	assert.True(t, f.Admit("anything", SeverityDebug))
	assert.False(t, f.Admit("anything", SeverityNotSet))
}

func TestFilterRejectsUnknownNames(t *testing.T) {
	_, err := NewFilter(Rules{Default: "loud"})
	assert.Error(t, err)

	_, err = NewFilter(Rules{Default: "info", Logs: map[string]string{"a": "chatty"}})
	assert.Error(t, err)
}

func TestLevelRoundTrip(t *testing.T) {
	for _, s := range []int{SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityFatal} {
		assert.Equal(t, s, SeverityOf(LevelOf(s)))
	}
	assert.Equal(t, SeverityOf(LevelOf(SeverityNotSet)), SeverityDebug)
}
