package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	for _, key := range []string{"SANTA_ADDR", "SANTA_BASE_URL", "SANTA_VERBOSE", "SANTA_SOLVER_ATTEMPTS",
		"SANTA_SESSION_TTL", "SANTA_JANITOR_INTERVAL", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 500, cfg.SolverAttempts)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.JanitorInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("SANTA_ADDR", ":9090")
	t.Setenv("SANTA_BASE_URL", "https://santa.example.org")
	t.Setenv("SANTA_VERBOSE", "false")
	t.Setenv("SANTA_SOLVER_ATTEMPTS", "50")
	t.Setenv("SANTA_SESSION_TTL", "30m")
	t.Setenv("SANTA_JANITOR_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://santa.example.org", cfg.BaseURL)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, 50, cfg.SolverAttempts)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.JanitorInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SANTA_VERBOSE", "maybe"},
		{"SANTA_SOLVER_ATTEMPTS", "many"},
		{"SANTA_SOLVER_ATTEMPTS", "0"},
		{"SANTA_SESSION_TTL", "soon"},
		{"SANTA_JANITOR_INTERVAL", "-1m"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("GO_ENV", "production")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
