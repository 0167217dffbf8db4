package ndjson

import "time"

// Config holds configuration for streamed chat responses
type Config struct {
	// KeepAliveInterval is how often a blank line is written while the engine
	// is busy, so proxies do not time the connection out. Zero disables it.
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default stream configuration
// 10 seconds is safe for most proxies
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
	}
}
