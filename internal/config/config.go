package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/logger"
	"github.com/joho/godotenv"

	"santa/internal/matching"
)

// Config holds all configuration for the application
type Config struct {
	Environment     string
	Addr            string
	BaseURL         string
	GinMode         string
	Verbose         bool
	SolverAttempts  int
	SessionTTL      time.Duration
	JanitorInterval time.Duration
}

// Load reads configuration from environment variables.
// Outside production a .env file in the working directory is loaded first;
// variables already set in the environment win.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warningf("Could not load .env file: %v", err)
		}
	}

	cfg := &Config{
		Environment: env,
		Addr:        getenv("SANTA_ADDR", ":8080"),
		BaseURL:     getenv("SANTA_BASE_URL", "http://localhost:8080"),
		GinMode:     os.Getenv("GIN_MODE"),
	}

	var err error
	if cfg.Verbose, err = strconv.ParseBool(getenv("SANTA_VERBOSE", "true")); err != nil {
		return nil, fmt.Errorf("SANTA_VERBOSE: %w", err)
	}
	if cfg.SolverAttempts, err = strconv.Atoi(getenv("SANTA_SOLVER_ATTEMPTS", strconv.Itoa(matching.DefaultAttempts))); err != nil {
		return nil, fmt.Errorf("SANTA_SOLVER_ATTEMPTS: %w", err)
	}
	if cfg.SolverAttempts < 1 {
		return nil, fmt.Errorf("SANTA_SOLVER_ATTEMPTS must be positive, got %d", cfg.SolverAttempts)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getenv("SANTA_SESSION_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("SANTA_SESSION_TTL: %w", err)
	}
	if cfg.JanitorInterval, err = time.ParseDuration(getenv("SANTA_JANITOR_INTERVAL", "10m")); err != nil {
		return nil, fmt.Errorf("SANTA_JANITOR_INTERVAL: %w", err)
	}
	if cfg.JanitorInterval <= 0 {
		return nil, fmt.Errorf("SANTA_JANITOR_INTERVAL must be positive, got %s", cfg.JanitorInterval)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
