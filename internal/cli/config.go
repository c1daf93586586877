package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerAddr string
	OpsURL     string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: getEnvOrDefault("TRIVIAD_SERVER", "localhost:4242"),
		OpsURL:     getEnvOrDefault("TRIVIAD_OPS_URL", "http://localhost:8080"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
