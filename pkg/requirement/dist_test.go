package requirement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDists creates metadata directories for the given names under a temp dir.
func writeDists(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, n), 0o755))
	}
	return dir
}

func TestFindDistributions(t *testing.T) {
	dir := writeDists(t,
		"pyserial-2.7.dist-info",
		"phue-0.8-py3.4.egg-info",
		"python_nest-2.3.1.dist-info",
		"pyserial",
		"broken.dist-info",
	)

	got := FindDistributions(dir)
	byName := map[string]string{}
	for _, d := range got {
		byName[d.Name] = d.Version
		assert.Equal(t, dir, d.Path)
	}

	assert.Equal(t, map[string]string{
		"pyserial":    "2.7",
		"phue":        "0.8",
		"python_nest": "2.3.1",
	}, byName)
}

func TestFindDistributions_MissingDir(t *testing.T) {
	assert.Empty(t, FindDistributions(filepath.Join(t.TempDir(), "nope")))
}

func TestFindIn(t *testing.T) {
	lib := writeDists(t, "pyserial-2.6.dist-info")
	site := writeDists(t, "pyserial-2.7.dist-info")

	req, err := Parse("pyserial==2.7")
	require.NoError(t, err)

	d, ok := findIn(req, "", lib, site)
	require.True(t, ok)
	assert.Equal(t, site, d.Path)

	_, ok = findIn(req, lib)
	assert.False(t, ok)
}
