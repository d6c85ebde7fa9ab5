package config

import (
	"fmt"
	"io"

	"github.com/gohugoio/modreleaser/internal/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"
)

// DecodeAndApplyDefaults decodes the TOML in r, applies default values and validates the result.
//
// Note that the source is not expanded from the environment,
// ${...} in config values are templates rendered at publish time.
func DecodeAndApplyDefaults(r io.Reader) (Config, error) {
	var m map[string]any

	d := toml.NewDecoder(r)
	if err := d.Decode(&m); err != nil {
		return Config{}, err
	}
	if m == nil {
		m = make(map[string]any)
	}

	cfg, err := model.FromMap[Config](m)
	if err != nil {
		return Config{}, fmt.Errorf("failed to map config: %w", err)
	}

	if err := cfg.Init(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadEnvFile reads the KEY=value pairs in filename.
func LoadEnvFile(filename string) (map[string]string, error) {
	env, err := gotenv.Read(filename)
	if err != nil {
		return nil, err
	}
	return env, nil
}
