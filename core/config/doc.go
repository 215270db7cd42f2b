// Package config loads typed configuration from the environment.
//
// Structs declare their variables with caarlos0/env tags. A .env file in the
// working directory is read once, before the first load, and never overrides
// variables already set in the process environment.
//
//	type Config struct {
//		BaseURL string        `env:"PROMETEO_BASE_URL" envDefault:"https://banking.sandbox.prometeoapi.com"`
//		Timeout time.Duration `env:"PROMETEO_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// MustLoad panics instead of returning the error and is meant for main.
//
// Each type is parsed once. Later Load calls for the same type copy the
// cached value, so packages may load their own section of the configuration
// independently without re-reading the environment. Nested structs are
// parsed as part of their parent.
package config
