package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment overrides, e.g. ECOPREV_PORT.
const EnvPrefix = "ECOPREV"

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content []byte) []byte {
	return envVarRegex.ReplaceAllFunc(content, func(match []byte) []byte {
		varName := string(envVarRegex.FindSubmatch(match)[1])
		if value, exists := os.LookupEnv(varName); exists {
			return []byte(value)
		}
		return match
	})
}

// loadDotEnv loads KEY=VALUE pairs from path. Variables already set in the
// environment are kept.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// envOverrides lists the keys that can be set from ECOPREV_* variables.
// Nil fields were not set.
type envOverrides struct {
	Host           *string  `envconfig:"HOST"`
	Port           *int     `envconfig:"PORT"`
	PIDFile        *string  `envconfig:"PID_FILE"`
	LogLevel       *string  `envconfig:"LOG_LEVEL"`
	LogFormat      *string  `envconfig:"LOG_FORMAT"`
	LogFile        *string  `envconfig:"LOG_FILE"`
	ModelsDir      *string  `envconfig:"MODELS_DIR"`
	PolicyType     *string  `envconfig:"POLICY_MODEL_TYPE"`
	PolicyModel    *string  `envconfig:"POLICY_MODEL"`
	EmissionType   *string  `envconfig:"EMISSION_MODEL_TYPE"`
	EmissionModel  *string  `envconfig:"EMISSION_MODEL"`
	ONNXLibrary    *string  `envconfig:"ONNX_LIBRARY"`
	MetricsEnabled *bool    `envconfig:"METRICS_ENABLED"`
	SentryDSN      *string  `envconfig:"SENTRY_DSN"`
	SentrySample   *float64 `envconfig:"SENTRY_SAMPLE_RATE"`
	RateLimit      *float64 `envconfig:"RATE_LIMIT_RPS"`
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	setString(&cfg.Server.Host, o.Host)
	setString(&cfg.Server.PIDFile, o.PIDFile)
	setString(&cfg.Logging.Level, o.LogLevel)
	setString(&cfg.Logging.Format, o.LogFormat)
	setString(&cfg.Logging.File, o.LogFile)
	setString(&cfg.Models.Dir, o.ModelsDir)
	setString(&cfg.Models.Policy.Type, o.PolicyType)
	setString(&cfg.Models.Policy.Path, o.PolicyModel)
	setString(&cfg.Models.Emission.Type, o.EmissionType)
	setString(&cfg.Models.Emission.Path, o.EmissionModel)
	setString(&cfg.ONNX.LibraryPath, o.ONNXLibrary)
	setString(&cfg.Sentry.DSN, o.SentryDSN)

	if o.Port != nil {
		cfg.Server.Port = *o.Port
	}
	if o.MetricsEnabled != nil {
		cfg.Metrics.Enabled = *o.MetricsEnabled
	}
	if o.SentrySample != nil {
		cfg.Sentry.SampleRate = *o.SentrySample
	}
	if o.RateLimit != nil {
		cfg.Server.RateLimit.Enabled = *o.RateLimit > 0
		cfg.Server.RateLimit.RequestsPerSecond = *o.RateLimit
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
