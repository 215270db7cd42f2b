package chatbot

import "time"

// Config holds the HTTP surface settings.
type Config struct {
	// GuestAPIKey enables POST /api/guest when set.
	GuestAPIKey string `env:"GUEST_API_KEY"`
	// TurnRate and TurnBurst bound the turns per second of one session.
	TurnRate  float64 `env:"TURN_RATE" envDefault:"2"`
	TurnBurst int     `env:"TURN_BURST" envDefault:"5"`
	// AllowedOrigins lists websocket origins besides the serving host.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	// MaxBodyBytes caps request bodies and websocket frames.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"65536"`
	// SweepInterval is how often idle turn gates and expired sessions are dropped.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
}

func defaultConfig() Config {
	return Config{
		TurnRate:      2,
		TurnBurst:     5,
		MaxBodyBytes:  64 << 10,
		SweepInterval: 10 * time.Minute,
	}
}
