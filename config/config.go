// Package config provides configuration loading and access for the torsion command.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tool configuration parameters.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Log    LogConfig    `yaml:"log"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Output OutputConfig `yaml:"output"`
}

// DataConfig locates vehicle data files.
type DataConfig struct {
	Dir string `yaml:"dir"` // Root that resource names are resolved against
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SweepConfig holds the ranges sampled when tabulating torque responses.
type SweepConfig struct {
	DisplacementMin float64 `yaml:"displacement_min"` // rad
	DisplacementMax float64 `yaml:"displacement_max"` // rad
	RateMin         float64 `yaml:"rate_min"`         // rad/s
	RateMax         float64 `yaml:"rate_max"`         // rad/s
	Steps           int     `yaml:"steps"`            // Samples per range, including both ends
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty disables file output
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Sweep.Steps < 2 {
		errs = append(errs, fmt.Errorf("sweep.steps must be at least 2, got %d", c.Sweep.Steps))
	}
	if c.Sweep.DisplacementMin >= c.Sweep.DisplacementMax {
		errs = append(errs, fmt.Errorf("sweep.displacement_min (%g) must be below displacement_max (%g)",
			c.Sweep.DisplacementMin, c.Sweep.DisplacementMax))
	}
	if c.Sweep.RateMin >= c.Sweep.RateMax {
		errs = append(errs, fmt.Errorf("sweep.rate_min (%g) must be below rate_max (%g)",
			c.Sweep.RateMin, c.Sweep.RateMax))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
