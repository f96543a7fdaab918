// Package config loads process configuration from the environment, once, at
// startup. Missing required values are a startup-fatal error, never a
// runtime one.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every knob the service reads.
type Config struct {
	// DatabaseURL is the postgres DSN. Required.
	DatabaseURL string
	// HTTPAddr is the listen address. Defaults to ":8080".
	HTTPAddr string
	// LogDir is where the run log is written. Defaults to "logs".
	LogDir string
	// KafkaBrokers enables event publishing when non-empty.
	KafkaBrokers []string
}

// Load reads a .env file when present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		HTTPAddr:     envDefault("HTTP_ADDR", ":8080"),
		LogDir:       envDefault("LOG_DIR", "logs"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}
	return nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
