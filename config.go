package intercomm

import (
	"time"

	"github.com/dmitrymomot/intercomm/core/config"
)

// Config holds process-wide bus settings.
type Config struct {
	LogLevel        string        `env:"INTERCOMM_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"INTERCOMM_LOG_FORMAT" envDefault:"text"`
	SweepInterval   time.Duration `env:"INTERCOMM_SWEEP_INTERVAL" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"INTERCOMM_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig returns the configuration used when no environment variables are set.
func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "text",
		SweepInterval:   30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
