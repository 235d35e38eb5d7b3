package app

import "github.com/spf13/pflag"

// CliOptions is implemented by every options struct an App can bind.
type CliOptions interface {
	// AddFlags adds flags to the flagset.
	AddFlags(fs *pflag.FlagSet)
	// Validate validates the options.
	Validate() error
	// Complete completes the options with defaults.
	Complete() error
}
