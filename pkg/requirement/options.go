package requirement

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options configures the installer.
type Options struct {
	// Python is the interpreter used to run pip.
	Python string `json:"python" mapstructure:"python"`
	// SiteDirs are scanned for already installed distributions. When empty
	// and DiscoverSiteDirs is set they are asked from the interpreter.
	SiteDirs         []string      `json:"site-dirs" mapstructure:"site-dirs"`
	DiscoverSiteDirs bool          `json:"discover-site-dirs" mapstructure:"discover-site-dirs"`
	Upgrade          bool          `json:"upgrade" mapstructure:"upgrade"`
	Timeout          time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions returns the defaults.
func NewOptions() *Options {
	return &Options{
		Python:           "python3",
		DiscoverSiteDirs: true,
		Upgrade:          true,
	}
}

// AddFlags adds installer flags.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Python, "installer.python", o.Python, "Python interpreter used to run pip.")
	fs.StringSliceVar(&o.SiteDirs, "installer.site-dirs", o.SiteDirs, "Site-packages directories checked before installing.")
	fs.BoolVar(&o.DiscoverSiteDirs, "installer.discover-site-dirs", o.DiscoverSiteDirs, "Ask the interpreter for its site-packages directories when none are given.")
	fs.BoolVar(&o.Upgrade, "installer.upgrade", o.Upgrade, "Pass --upgrade to pip.")
	fs.DurationVar(&o.Timeout, "installer.timeout", o.Timeout, "Timeout of a single install, 0 waits forever.")
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Python == "" {
		return fmt.Errorf("installer.python must not be empty")
	}
	if o.Timeout < 0 {
		return fmt.Errorf("installer.timeout must not be negative")
	}
	return nil
}

// Complete fills defaults.
func (o *Options) Complete() error {
	if o.Python == "" {
		o.Python = "python3"
	}
	return nil
}
