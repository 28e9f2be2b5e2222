package config

import "time"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Models  ModelsConfig  `yaml:"models"`
	ONNX    ONNXConfig    `yaml:"onnx"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Sentry  SentryConfig  `yaml:"sentry"`
	Watch   WatchConfig   `yaml:"watch"`
}

type ServerConfig struct {
	Host            string          `yaml:"host"`
	Port            int             `yaml:"port"`
	PIDFile         string          `yaml:"pid_file"`
	ReadTimeoutSec  int             `yaml:"read_timeout_sec"`
	WriteTimeoutSec int             `yaml:"write_timeout_sec"`
	IdleTimeoutSec  int             `yaml:"idle_timeout_sec"`
	MaxBodyBytes    int64           `yaml:"max_body_bytes"`
	Profiling       ProfilingConfig `yaml:"profiling"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

type ProfilingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RateLimitConfig holds the global token bucket settings.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	PerIP             bool    `yaml:"per_ip"`
}

// ModelsConfig locates the two model artifacts.
type ModelsConfig struct {
	// Dir is prepended to relative artifact paths.
	Dir      string      `yaml:"dir"`
	Policy   ModelConfig `yaml:"policy"`
	Emission ModelConfig `yaml:"emission"`
}

// ModelConfig describes one artifact.
type ModelConfig struct {
	// Type: forest, linear, pmml, onnx
	Type string `yaml:"type"`
	Path string `yaml:"path"`

	// ONNX tensor names; empty uses the skl2onnx defaults.
	InputName  string `yaml:"input_name"`
	OutputName string `yaml:"output_name"`
}

type ONNXConfig struct {
	LibraryPath string `yaml:"library_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// File enables rotated file output in addition to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type SentryConfig struct {
	DSN         string  `yaml:"dsn"`
	Environment string  `yaml:"environment"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// WatchConfig enables reloading when the config file changes on disk.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSec) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSec) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutSec) * time.Second
}

func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
