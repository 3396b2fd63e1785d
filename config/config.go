// Package config loads the settings of the almanac command.
//
// Settings are applied in this order, later ones win:
//   - defaults,
//   - the YAML file, if any,
//   - ALMANAC_* environment variables.
//
// Command line flags are applied on top by the command itself.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/liznear/almanac/almanac"
)

// Config holds the settings of one run.
type Config struct {
	// Entry is the category the stage chain starts from.
	Entry string `yaml:"entry" env:"ALMANAC_ENTRY"`

	// Mode is how seeds are read: "single" or "ranged".
	Mode string `yaml:"mode" env:"ALMANAC_MODE"`

	// Workers is the max number of intervals mapped concurrently.
	Workers int `yaml:"workers" env:"ALMANAC_WORKERS"`

	// Coalesce merges overlapping intervals between stages.
	Coalesce bool `yaml:"coalesce" env:"ALMANAC_COALESCE"`

	// Debug turns on debug logging. The --debug flag turns it on as well.
	Debug bool `yaml:"debug" env:"ALMANAC_DEBUG"`
}

func Default() Config {
	return Config{
		Entry:   almanac.DefaultEntry,
		Mode:    string(almanac.ModeSingle),
		Workers: 1,
	}
}

// Load returns the defaults overridden by the file at path and then by the
// environment. An empty path skips the file. A missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: %q does not exist: %w", path, err)
			}
			return Config{}, fmt.Errorf("config: fail to read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: fail to parse %q: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: fail to parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Entry == "" {
		return errors.New("config: entry must not be empty")
	}
	if _, err := almanac.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Options converts the settings to almanac options.
func (c Config) Options() []almanac.Option {
	return []almanac.Option{
		almanac.WithWorkers(c.Workers),
		almanac.WithCoalesce(c.Coalesce),
	}
}
