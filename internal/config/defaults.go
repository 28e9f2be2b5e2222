package config

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			PIDFile:         "/var/run/ecoprev.pid",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 30,
			IdleTimeoutSec:  60,
			MaxBodyBytes:    1 << 20,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 100,
				Burst:             200,
			},
		},
		Models: ModelsConfig{
			Dir: "models",
			Policy: ModelConfig{
				Type: "forest",
				Path: "modelo_rf.json",
			},
			Emission: ModelConfig{
				Type: "linear",
				Path: "modelo_reducao_gases.json",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Sentry: SentryConfig{
			Environment: "production",
			SampleRate:  1.0,
		},
		Watch: WatchConfig{
			Enabled:    false,
			DebounceMS: 500,
		},
	}
}
