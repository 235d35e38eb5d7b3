package app

import (
	"github.com/kart-io/version"
)

// GetVersion returns the build's git version.
func GetVersion() string {
	return version.Get().GitVersion
}
