// Package config loads server settings from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
//
// Environment variables:
//
//	PORT:             listen port (default: 8080)
//	DB_PATH:          SQLite database file (default: ./data/tripledger.db)
//	JWT_SECRET:       HMAC key for bearer tokens (required, at least 32 bytes)
//	TOKEN_DURATION:   lifetime of issued tokens (default: 24h)
//	LOG_LEVEL:        debug, info, warn, error (default: info)
//	FALLBACK_UNIT:    unit for ids that no longer resolve (default: unassigned)
//	SHUTDOWN_TIMEOUT: grace period for in-flight requests (default: 10s)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/pkg/logging"
)

const minSecretLength = 32

// Config holds the server settings.
type Config struct {
	Port            int
	DBPath          string
	JWTSecret       string
	TokenDuration   time.Duration
	LogLevel        string
	FallbackUnit    string
	ShutdownTimeout time.Duration
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	var errs []error

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		errs = append(errs, fmt.Errorf("PORT: %w", err))
	}
	tokenDuration, err := time.ParseDuration(getEnv("TOKEN_DURATION", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TOKEN_DURATION: %w", err))
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg := &Config{
		Port:            port,
		DBPath:          getEnv("DB_PATH", "./data/tripledger.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenDuration:   tokenDuration,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		FallbackUnit:    getEnv("FALLBACK_UNIT", ledger.DefaultFallbackUnit),
		ShutdownTimeout: shutdownTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, fmt.Errorf("DB_PATH is required"))
	}
	if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_DURATION must be positive"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
