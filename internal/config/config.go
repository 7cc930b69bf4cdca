// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mmynk/splitledger/pkg/logging"
)

// MinSecretLength is the shortest JWT secret accepted.
const MinSecretLength = 32

// Config holds runtime configuration for the server.
type Config struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	DBPath       string        `envconfig:"DB_PATH" default:"./data/splitledger.db"`
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	RateLimit    int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("DB_PATH must not be empty")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}
