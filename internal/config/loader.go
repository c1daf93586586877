package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvFileVar names the environment variable pointing at an optional YAML
// config file.
const EnvFileVar = "TRIVIAD_CONFIG"

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. YAML file if TRIVIAD_CONFIG is set
//  3. env vars (prefix TRIVIAD_, e.g. TRIVIAD_LISTEN_ADDR)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := os.Getenv(EnvFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// TRIVIAD_MAX_PAYLOAD -> max_payload, preserving underscores to match
	// the koanf tags on Config.
	envProvider := env.Provider("TRIVIAD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "triviad_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks config invariants
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.MaxPayload <= 0 {
		return errors.New("max_payload must be positive")
	}
	if c.ScoreboardInterval <= 0 {
		return errors.New("scoreboard_interval must be positive")
	}
	switch c.StorageType {
	case StorageTypeMemory, StorageTypeRedis:
	default:
		return fmt.Errorf("storage_type must be %q or %q", StorageTypeMemory, StorageTypeRedis)
	}
	if c.StorageType == StorageTypeRedis && c.RedisURL == "" {
		return errors.New("redis_url required when storage_type is redis")
	}
	return nil
}
