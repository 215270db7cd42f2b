package session

import "time"

// Config holds session manager settings loadable from the environment.
type Config struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
}

func defaultConfig() Config {
	return Config{
		TTL:           24 * time.Hour,
		TouchInterval: 5 * time.Minute,
	}
}

// Option configures a Manager.
type Option func(*Config)

// WithConfig applies a loaded Config. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		if cfg.TTL > 0 {
			c.TTL = cfg.TTL
		}
		if cfg.TouchInterval >= 0 {
			c.TouchInterval = cfg.TouchInterval
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TTL = ttl
	}
}

// WithTouchInterval sets the minimum time between expiration extensions.
// Zero extends on every access.
func WithTouchInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.TouchInterval = interval
	}
}
