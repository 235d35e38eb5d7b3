package core

import (
	"context"

	"github.com/spf13/cast"

	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/location"
	"github.com/kart-io/hestia/pkg/utils/dt"
	"github.com/kart-io/hestia/pkg/validator"
)

var log = applog.Named("hestia.core")

// Core section keys.
const (
	ConfLatitude        = "latitude"
	ConfLongitude       = "longitude"
	ConfName            = "name"
	ConfTimeZone        = "time_zone"
	ConfTemperatureUnit = "temperature_unit"
	ConfCustomize       = "customize"
)

// ProcessCoreConfig applies the core section to rt.Settings. Invalid values
// are logged and leave the setting untouched. When latitude, longitude,
// temperature unit or time zone remain unset, detector is consulted once and
// only the unset values are filled from it.
func ProcessCoreConfig(ctx context.Context, rt *Runtime, section Options, detector location.Detector) {
	s := &rt.Settings

	if v, ok := section[ConfLatitude]; ok {
		if f, ok := coordinate(ConfLatitude, v, "latitude"); ok {
			s.Latitude = &f
		}
	}
	if v, ok := section[ConfLongitude]; ok {
		if f, ok := coordinate(ConfLongitude, v, "longitude"); ok {
			s.Longitude = &f
		}
	}
	if v, ok := section[ConfName]; ok {
		name, err := cast.ToStringE(v)
		if err != nil {
			log.Errorw("Received invalid value", "key", ConfName, "value", v,
				"error", errors.ErrInvalidCoreValue.WithCause(err))
		} else {
			s.LocationName = name
		}
	}

	if v, ok := section[ConfTimeZone]; ok && v != nil {
		setTimeZone(s, cast.ToString(v))
	}

	if customize, ok := ToOptions(section[ConfCustomize]); ok {
		applyCustomize(rt, customize)
	}

	if v, ok := section[ConfTemperatureUnit]; ok {
		switch cast.ToString(v) {
		case "C":
			s.TemperatureUnit = TempCelsius
		case "F":
			s.TemperatureUnit = TempFahrenheit
		}
	}

	if s.Latitude != nil && s.Longitude != nil && s.TemperatureUnit != "" && s.TimeZone != nil {
		return
	}

	log.Info("Auto detecting location and temperature unit")

	var info *location.Info
	if detector != nil {
		info = detector.Detect(ctx)
	}
	if info == nil {
		log.Errorw("Could not detect location information", "error", errors.ErrLocationUnavailable)
		return
	}

	if s.Latitude == nil && s.Longitude == nil {
		lat, long := info.Latitude, info.Longitude
		s.Latitude, s.Longitude = &lat, &long
	}

	if s.TemperatureUnit == "" {
		if info.UseFahrenheit {
			s.TemperatureUnit = TempFahrenheit
		} else {
			s.TemperatureUnit = TempCelsius
		}
	}

	if s.LocationName == "" {
		s.LocationName = info.City
	}

	if s.TimeZone == nil && info.TimeZone != "" {
		setTimeZone(s, info.TimeZone)
	}
}

// coordinate converts v to a float and checks it against tag.
func coordinate(key string, v any, tag string) (float64, bool) {
	f, err := cast.ToFloat64E(v)
	if err == nil {
		err = validator.Var(f, tag)
	}
	if err != nil {
		log.Errorw("Received invalid value", "key", key, "value", v,
			"error", errors.ErrInvalidCoreValue.WithCause(err))
		return 0, false
	}
	return f, true
}

// setTimeZone resolves name and installs it as the runtime and process
// default zone.
func setTimeZone(s *Settings, name string) {
	loc, err := dt.GetTimeZone(name)
	if err != nil {
		log.Errorw("Received invalid time zone", "time_zone", name,
			"error", errors.ErrInvalidTimeZone.WithCause(err))
		return
	}
	s.TimeZone = loc
	dt.SetDefaultTimeZone(loc)
}

func applyCustomize(rt *Runtime, customize Options) {
	for entityID, raw := range customize {
		attrs, ok := ToOptions(raw)
		if !ok {
			continue
		}
		if err := rt.Overrides.Overwrite(entityID, attrs); err != nil {
			log.Warnw("Ignoring customization", "entity_id", entityID, "error", err)
		}
	}
}
