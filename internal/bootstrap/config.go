package bootstrap

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kart-io/hestia/internal/core"
	"github.com/kart-io/hestia/pkg/errors"
)

// LoadConfigFile reads a YAML configuration file. Sections left empty in
// the file ("sun:") are kept as empty options.
func LoadConfigFile(path string) (core.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ErrConfigLoad.WithMessagef("unable to read %s", path).WithCause(err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.ErrConfigLoad.WithMessagef("unable to parse %s", path).WithCause(err)
	}
	return core.NewConfig(raw), nil
}
