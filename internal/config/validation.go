package config

import (
	"errors"
	"fmt"

	"github.com/globalsolution/ecoprev/internal/model"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Models.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("models: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}

	if err := c.Sentry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sentry: %w", err))
	}

	if c.Watch.Enabled && c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("watch: debounce_ms must be non-negative"))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeoutSec < 0 || s.WriteTimeoutSec < 0 || s.IdleTimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("timeouts must be non-negative"))
	}
	if s.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be non-negative"))
	}
	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func (m *ModelsConfig) Validate() error {
	var errs []error

	policy := model.Type(m.Policy.Type)
	if !policy.SupportsClassification() {
		errs = append(errs, fmt.Errorf("policy.type %q is not a classifier format (valid: forest, pmml, onnx)", m.Policy.Type))
	}
	if m.Policy.Path == "" {
		errs = append(errs, fmt.Errorf("policy.path cannot be empty"))
	}

	emission := model.Type(m.Emission.Type)
	if !emission.SupportsRegression() {
		errs = append(errs, fmt.Errorf("emission.type %q is not a regressor format (valid: linear, pmml, onnx)", m.Emission.Type))
	}
	if m.Emission.Path == "" {
		errs = append(errs, fmt.Errorf("emission.path cannot be empty"))
	}

	return errors.Join(errs...)
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	if l.File != "" && l.MaxSizeMB < 1 {
		return fmt.Errorf("max_size_mb must be at least 1 when file is set")
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if m.Enabled && (m.Path == "" || m.Path[0] != '/') {
		return fmt.Errorf("path must start with '/', got %q", m.Path)
	}
	return nil
}

func (s *SentryConfig) Validate() error {
	if s.SampleRate < 0 || s.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", s.SampleRate)
	}
	return nil
}
