// Package dt holds the process-wide default time zone.
package dt

import (
	"fmt"
	"sync/atomic"
	"time"
)

var defaultZone atomic.Pointer[time.Location]

func init() {
	defaultZone.Store(time.UTC)
}

// GetTimeZone resolves an IANA zone name such as "America/Los_Angeles".
func GetTimeZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("empty time zone name")
	}
	return time.LoadLocation(name)
}

// SetDefaultTimeZone sets the zone returned by DefaultTimeZone and used by Now.
// A nil location is ignored.
func SetDefaultTimeZone(loc *time.Location) {
	if loc != nil {
		defaultZone.Store(loc)
	}
}

// DefaultTimeZone returns the process default zone, UTC until set.
func DefaultTimeZone() *time.Location {
	return defaultZone.Load()
}

// Now returns the current time in the default zone.
func Now() time.Time {
	return time.Now().In(DefaultTimeZone())
}
