package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path over the defaults. A .env file in the same
// directory is loaded first, and ECOPREV_* variables are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = substituteEnvVars(data)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a configuration from defaults, ./.env and ECOPREV_* variables.
func FromEnv() (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or the environment-only configuration when path
// is empty. Any error yields Default().
func LoadOrDefault(path string) *Config {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg, err = FromEnv()
	} else {
		cfg, err = Load(path)
	}
	if err != nil {
		return Default()
	}
	return cfg
}
