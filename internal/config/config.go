// Package config defines server configuration and its loading.
package config

import "time"

// Storage backend selectors
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config contains process configuration
type Config struct {
	// ListenAddr is the quiz protocol TCP listen address, e.g. ":4242"
	ListenAddr string `koanf:"listen_addr"`

	// OpsAddr is the operator HTTP listen address (health, scoreboard,
	// metrics). Empty disables the operator server.
	OpsAddr string `koanf:"ops_addr"`

	// MaxPayload bounds the framed message payload size in bytes
	MaxPayload int `koanf:"max_payload"`

	// ScoreboardInterval is the cadence of the operator scoreboard render
	ScoreboardInterval time.Duration `koanf:"scoreboard_interval"`

	// TechQuestions and GeneralQuestions are paths to the pipe-delimited
	// question source files
	TechQuestions    string `koanf:"tech_questions"`
	GeneralQuestions string `koanf:"general_questions"`

	// StorageType selects the registry backend ("memory" or "redis")
	StorageType string `koanf:"storage_type"`

	// RedisURL is the Redis connection URL (required when StorageType is redis)
	RedisURL string `koanf:"redis_url"`

	// LogLevel controls verbosity: debug, info, warn, error
	LogLevel string `koanf:"log_level"`
}

// Default returns a Config populated with defaults
func Default() *Config {
	return &Config{
		ListenAddr:         ":4242",
		OpsAddr:            ":8080",
		MaxPayload:         1024,
		ScoreboardInterval: 2 * time.Second,
		TechQuestions:      "data/tech.txt",
		GeneralQuestions:   "data/general.txt",
		StorageType:        StorageTypeMemory,
		RedisURL:           "redis://localhost:6379",
		LogLevel:           "info",
	}
}
