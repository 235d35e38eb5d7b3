package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kart-io/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logopts "github.com/kart-io/hestia/pkg/options/logger"
)

func restoreGlobalLogger(t *testing.T) {
	t.Helper()
	prev := logger.Global()
	t.Cleanup(func() { logger.SetGlobal(prev) })
}

func TestEnableLogging(t *testing.T) {
	tests := []struct {
		name     string
		cfg      LoggingConfig
		logFile  string
		wantFile bool
	}{
		{name: "console and error log", cfg: LoggingConfig{}, logFile: "hestia.log", wantFile: true},
		{name: "daemon verbose", cfg: LoggingConfig{Daemon: true, Verbose: true}, logFile: "hestia.log", wantFile: true},
		{name: "daily rotation", cfg: LoggingConfig{Daemon: true, RotateDays: 3}, logFile: "hestia.log", wantFile: true},
		{name: "error log disabled", cfg: LoggingConfig{}, logFile: "", wantFile: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreGlobalLogger(t)
			dir := t.TempDir()

			opts := logopts.NewOptions()
			require.NoError(t, opts.Complete())
			opts.ErrorLogFile = tt.logFile

			require.NoError(t, EnableLogging(dir, opts, tt.cfg))

			_, err := os.Stat(filepath.Join(dir, "hestia.log"))
			if tt.wantFile {
				assert.NoError(t, err)
			} else {
				assert.True(t, os.IsNotExist(err))
			}
		})
	}
}

func TestEnableLogging_UnwritableErrorLog(t *testing.T) {
	restoreGlobalLogger(t)

	// 目录不存在，错误日志无法创建，但不应返回错误
	dir := filepath.Join(t.TempDir(), "missing")
	require.NoError(t, EnableLogging(dir, nil, LoggingConfig{}))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestCheckWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.log")
	require.NoError(t, checkWritable(path))
	require.NoError(t, checkWritable(path))
	assert.FileExists(t, path)

	assert.Error(t, checkWritable(filepath.Join(t.TempDir(), "no", "such", "probe.log")))
}
