package redis

import (
	"time"

	"github.com/google/uuid"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// RoomTTL bounds how long an untouched room survives in Redis
	RoomTTL time.Duration

	// Namespace isolates one server process's rooms from any other.
	// Rooms never outlive the process that created them.
	Namespace string
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		RoomTTL:      24 * time.Hour,
		Namespace:    uuid.NewString(),
	}
}
