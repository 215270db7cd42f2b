package prometeo

import "time"

// Config holds the remote API settings.
type Config struct {
	BaseURL string        `env:"PROMETEO_BASE_URL" envDefault:"https://banking.sandbox.prometeoapi.com"`
	Timeout time.Duration `env:"PROMETEO_TIMEOUT" envDefault:"30s"`
	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64 `env:"PROMETEO_RATE" envDefault:"0"`
	Burst             int     `env:"PROMETEO_BURST" envDefault:"5"`
}
