// Package config loads runtime settings from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/hauntcore/engine"
	"github.com/nathoo/hauntcore/engine/state"
)

// Config holds tunable simulation settings. Zero values fall back to
// engine defaults.
type Config struct {
	Seed           int64  `yaml:"seed"`
	StartClock     string `yaml:"start_clock"`
	MinutesPerTurn int    `yaml:"minutes_per_turn"`
	FearPoints     int    `yaml:"fear_points"`
	MemoryLimit    int    `yaml:"memory_limit"`
	Database       string `yaml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StartClock:     "20:00",
		MinutesPerTurn: engine.DefaultMinutesPerTurn,
		FearPoints:     engine.DefaultFearPoints,
	}
}

// Load reads a YAML config file. Fields left unset in the file keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.StartClock != "" {
		if _, err := state.ParseClock(cfg.StartClock); err != nil {
			return cfg, fmt.Errorf("config %s: start_clock: %w", path, err)
		}
	}
	return cfg, nil
}

// Options converts the config into engine options.
func (c Config) Options() engine.Options {
	opts := engine.Options{
		Seed:           c.Seed,
		MinutesPerTurn: c.MinutesPerTurn,
		FearPoints:     c.FearPoints,
		MemoryLimit:    c.MemoryLimit,
	}
	if c.StartClock != "" {
		if clock, err := state.ParseClock(c.StartClock); err == nil {
			opts.StartClock = clock
		}
	}
	return opts
}
