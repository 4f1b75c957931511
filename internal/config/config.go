// Package config provides the service configuration for `bitlit serve`.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Port     string
	DBDriver string
	DBPath   string // SQLite path or Postgres DSN, depending on DBDriver
	Redis    RedisConfig

	SnapshotKeep   int
	PruneInterval  time.Duration
	LearnerIdle    time.Duration // loaded learners unused this long are unloaded
	AllowedOrigins []string
	Dev            bool
}

// RedisConfig controls the optional snapshot cache. An empty Addr
// disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// Load reads configuration from environment variables. dbFallback is used
// when BITLIT_DB is unset.
func Load(dbFallback string) (*Config, error) {
	keep := getEnvInt("BITLIT_SNAPSHOT_KEEP", 5)
	if keep <= 0 {
		keep = 5
	}

	cfg := &Config{
		Port:     getEnv("BITLIT_PORT", "8080"),
		DBDriver: strings.ToLower(getEnv("BITLIT_DB_DRIVER", "sqlite")),
		DBPath:   getEnv("BITLIT_DB", dbFallback),
		Redis: RedisConfig{
			Addr:     getEnv("BITLIT_REDIS_ADDR", ""),
			Password: getEnv("BITLIT_REDIS_PASSWORD", ""),
			DB:       getEnvInt("BITLIT_REDIS_DB", 0),
			TTL:      getEnvDuration("BITLIT_REDIS_TTL", 30*time.Minute),
		},
		SnapshotKeep:   keep,
		PruneInterval:  getEnvDuration("BITLIT_PRUNE_INTERVAL", 10*time.Minute),
		LearnerIdle:    getEnvDuration("BITLIT_LEARNER_IDLE", 30*time.Minute),
		AllowedOrigins: splitList(getEnv("BITLIT_ALLOWED_ORIGINS", "*")),
		Dev:            getEnvBool("BITLIT_DEV", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("BITLIT_PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("BITLIT_DB cannot be empty")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("BITLIT_DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.PruneInterval <= 0 {
		return fmt.Errorf("BITLIT_PRUNE_INTERVAL must be > 0")
	}
	if c.LearnerIdle <= 0 {
		return fmt.Errorf("BITLIT_LEARNER_IDLE must be > 0")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
