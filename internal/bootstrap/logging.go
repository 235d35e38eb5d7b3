package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"

	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	logopts "github.com/kart-io/hestia/pkg/options/logger"
)

// Error log thresholds.
const (
	errorLogLevel        = "WARN"
	verboseErrorLogLevel = "INFO"
)

// EnableLogging installs the global logger: a console sink unless running
// as a daemon, plus an error log file in configDir when it can be written.
// An unwritable error log is reported and skipped.
func EnableLogging(configDir string, opts *logopts.Options, cfg LoggingConfig) error {
	if opts == nil {
		opts = logopts.NewOptions()
	}

	var sinks []core.Logger
	if !cfg.Daemon {
		console, err := opts.CreateLogger()
		if err != nil {
			return fmt.Errorf("failed to create console logger: %w", err)
		}
		sinks = append(sinks, console)
	}

	var fileErr error
	if opts.ErrorLogFile != "" {
		path := filepath.Join(configDir, opts.ErrorLogFile)
		level := errorLogLevel
		if cfg.Verbose {
			level = verboseErrorLogLevel
		}

		if err := checkWritable(path); err != nil {
			fileErr = errors.ErrLogFileUnwritable.WithMessagef("unable to setup error log %s (access denied)", path).WithCause(err)
		} else if fileLog, err := opts.CreateFileLogger(path, level, cfg.RotateDays); err != nil {
			fileErr = errors.ErrLogFileUnwritable.WithCause(err)
		} else {
			sinks = append(sinks, fileLog)
		}
	}

	if len(sinks) > 0 {
		logger.SetGlobal(applog.Tee(sinks...))
	}

	if fileErr != nil {
		log.Errorw("Unable to setup error log", "error", fileErr)
	}
	return nil
}

// checkWritable opens path for appending, creating it if needed.
func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
