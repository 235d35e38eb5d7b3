// Package logger provides logger configuration options for hestia.
package logger

import (
	"fmt"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"github.com/kart-io/logger/option"
	"github.com/spf13/pflag"
)

// Options wraps option.LogOption for the console sink and adds the
// error-log file settings.
type Options struct {
	*option.LogOption `json:",inline" mapstructure:",squash"`

	// ErrorLogFile is the error-log file name inside the config directory.
	// Empty disables the file sink.
	ErrorLogFile string `json:"error-log-file" mapstructure:"error-log-file"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		LogOption:    option.DefaultLogOption(),
		ErrorLogFile: "hestia.log",
	}
}

// AddFlags adds flags for logger options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Engine, "log.engine", o.Engine, "Logging engine (zap|slog)")
	fs.StringVar(&o.Level, "log.level", o.Level, "Console log level (DEBUG|INFO|WARN|ERROR|FATAL)")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log format (json|console)")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Console output paths")
	fs.BoolVar(&o.Development, "log.development", o.Development, "Enable development mode")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Disable caller detection")
	fs.BoolVar(&o.DisableStacktrace, "log.disable-stacktrace", o.DisableStacktrace, "Disable stacktrace capture")
	fs.StringVar(&o.ErrorLogFile, "log.error-log-file", o.ErrorLogFile,
		"Error log file name inside the config directory, empty to disable")

	if o.Rotation == nil {
		o.Rotation = &option.RotationOption{}
	}
	fs.IntVar(&o.Rotation.MaxSize, "log.rotation.max-size", 100, "Maximum size in MB of the error log before rotation")
	fs.IntVar(&o.Rotation.MaxBackups, "log.rotation.max-backups", 30, "Maximum number of rotated error logs to retain")
	fs.BoolVar(&o.Rotation.Compress, "log.rotation.compress", true, "Compress rotated error logs using gzip")
}

// Validate validates the logger options.
func (o *Options) Validate() error {
	return o.LogOption.Validate()
}

// Complete completes the logger options with defaults.
func (o *Options) Complete() error {
	if len(o.OutputPaths) == 0 {
		o.OutputPaths = []string{"stdout"}
	}
	return nil
}

// CreateLogger creates the console logger.
func (o *Options) CreateLogger() (core.Logger, error) {
	return logger.New(o.LogOption)
}

// Init initializes the global logger with the console options.
func (o *Options) Init() error {
	log, err := o.CreateLogger()
	if err != nil {
		return err
	}
	logger.SetGlobal(log)
	return nil
}

// FileOption derives the option set for a file sink at path.
// rotateDays > 0 rotates the file daily and keeps that many days of history;
// otherwise the file only rotates by size.
func (o *Options) FileOption(path, level string, rotateDays int) *option.LogOption {
	fileOpt := *o.LogOption
	fileOpt.Level = level
	fileOpt.OutputPaths = []string{path}
	fileOpt.InitialFields = nil

	rotation := option.RotationOption{MaxSize: 100, MaxBackups: 30}
	if o.Rotation != nil {
		rotation = *o.Rotation
	}
	rotation.MaxAge = 0
	rotation.RotateInterval = ""
	if rotateDays > 0 {
		rotation.MaxAge = rotateDays
		rotation.MaxBackups = rotateDays
		rotation.RotateInterval = "24h"
	}
	fileOpt.Rotation = &rotation
	return &fileOpt
}

// CreateFileLogger builds a file sink logger, see FileOption.
func (o *Options) CreateFileLogger(path, level string, rotateDays int) (core.Logger, error) {
	log, err := logger.New(o.FileOption(path, level, rotateDays))
	if err != nil {
		return nil, fmt.Errorf("create file logger %s: %w", path, err)
	}
	return log, nil
}
