// Package location detects the host's geographic location, preferred
// temperature unit and time zone from a geo-IP service.
package location

import (
	"context"
	"slices"
	"strings"

	"github.com/kart-io/hestia/pkg/errors"
	applog "github.com/kart-io/hestia/pkg/infra/logger"
	"github.com/kart-io/hestia/pkg/utils/httpclient"
)

var log = applog.Named("hestia.location")

// fahrenheitCountries are the ISO country codes that use Fahrenheit.
var fahrenheitCountries = []string{"BS", "BZ", "KY", "PW", "US", "AS", "VI"}

// Info is the result of a successful detection.
type Info struct {
	Latitude      float64
	Longitude     float64
	City          string
	CountryCode   string
	UseFahrenheit bool
	TimeZone      string
}

// Detector looks up location information. A nil Info means nothing could
// be detected.
type Detector interface {
	Detect(ctx context.Context) *Info
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context) *Info

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context) *Info { return f(ctx) }

// ipAPIResponse is the ip-api.com JSON shape.
type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	City        string  `json:"city"`
	CountryCode string  `json:"countryCode"`
	Timezone    string  `json:"timezone"`
}

// HTTPDetector queries an ip-api.com compatible endpoint.
type HTTPDetector struct {
	url    string
	client *httpclient.Client
}

// NewHTTPDetector creates a detector from opts.
func NewHTTPDetector(opts *Options) *HTTPDetector {
	return &HTTPDetector{
		url:    opts.URL,
		client: httpclient.NewClient(opts.Timeout, opts.MaxRetries),
	}
}

// Detect implements Detector. Failures are logged and reported as nil.
func (d *HTTPDetector) Detect(ctx context.Context) *Info {
	info, err := d.lookup(ctx)
	if err != nil {
		log.Warnw("Location detection failed", "url", d.url, "error", err)
		return nil
	}
	return info
}

func (d *HTTPDetector) lookup(ctx context.Context) (*Info, error) {
	var resp ipAPIResponse
	if err := d.client.GetJSON(ctx, d.url, &resp); err != nil {
		return nil, errors.ErrLocationUnavailable.WithCause(err)
	}
	if resp.Status != "" && resp.Status != "success" {
		return nil, errors.ErrLocationUnavailable.WithMessagef("lookup status %s: %s", resp.Status, resp.Message)
	}

	country := strings.ToUpper(resp.CountryCode)
	return &Info{
		Latitude:      resp.Lat,
		Longitude:     resp.Lon,
		City:          resp.City,
		CountryCode:   country,
		UseFahrenheit: slices.Contains(fahrenheitCountries, country),
		TimeZone:      resp.Timezone,
	}, nil
}

// Disabled never detects anything.
var Disabled Detector = DetectorFunc(func(context.Context) *Info { return nil })

// New returns the detector configured by opts.
func New(opts *Options) Detector {
	if opts == nil || !opts.Enabled {
		return Disabled
	}
	return NewHTTPDetector(opts)
}
