package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GameTTL bounds how long an idle game and its history are kept.
	// Every accepted move refreshes it. Zero disables expiry.
	GameTTL time.Duration

	// MaxUpdateRetries is how many times UpdateGame retries an optimistic
	// transaction that lost a race before giving up
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		GameTTL:          24 * time.Hour,
		MaxUpdateRetries: 10,
	}
}
