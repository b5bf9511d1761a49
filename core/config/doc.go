// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use (a missing
// file is not an error) and uses the caarlos0/env library for parsing environment
// variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/intercomm/core/config"
//
//	type BusConfig struct {
//		LogLevel      string        `env:"INTERCOMM_LOG_LEVEL" envDefault:"info"`
//		SweepInterval time.Duration `env:"INTERCOMM_SWEEP_INTERVAL" envDefault:"30s"`
//	}
//
//	func main() {
//		var cfg BusConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 BusConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 BusConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently. A failed load is not cached, so a
// later call retries after the environment was fixed.
package config
