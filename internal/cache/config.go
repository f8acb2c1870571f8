package cache

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type Type string

const (
	Memory Type = "memory"
	PG     Type = "pg"
)

type Config struct {
	Type       Type
	MaxEntries int
}

// LoadEnv reads CACHE_TYPE and CACHE_MAX_ENTRIES. An unset CACHE_TYPE is
// resolved later by Backend.
func LoadEnv() (*Config, error) {
	cfg := &Config{Type: Type(os.Getenv("CACHE_TYPE"))}
	if cfg.Type != "" && cfg.Type != Memory && cfg.Type != PG {
		slog.Error("Invalid CACHE_TYPE environment variable value", "value", cfg.Type)
		return nil, fmt.Errorf("invalid CACHE_TYPE value: %s, expected one of %v", cfg.Type, []Type{Memory, PG})
	}

	if raw := os.Getenv("CACHE_MAX_ENTRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CACHE_MAX_ENTRIES value: %s", raw)
		}
		cfg.MaxEntries = n
	}

	return cfg, nil
}

// Backend returns the configured type. Without one, pg is used whenever a
// postgres pool is available so every process shares the same entries.
func (c *Config) Backend(hasPool bool) Type {
	switch {
	case c.Type != "":
		return c.Type
	case hasPool:
		return PG
	default:
		return Memory
	}
}
