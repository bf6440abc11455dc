package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables.
//
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file: the path argument, else MBC_CONFIG if set
//  3. env (prefix MBC_)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("MBC_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Environment variables: MBC_DATA_DIR, MBC_EAGLE_MULTIPLIER, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("MBC_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mbc_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.AdequateCoverage < 1 {
		return fmt.Errorf("adequate_coverage must be at least 1, got %d", c.AdequateCoverage)
	}
	if c.HighDemand < 1 {
		return fmt.Errorf("high_demand must be at least 1, got %d", c.HighDemand)
	}
	if c.EagleMultiplier <= 0 {
		return fmt.Errorf("eagle_multiplier must be positive, got %v", c.EagleMultiplier)
	}
	return nil
}
