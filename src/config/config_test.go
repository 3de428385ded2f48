package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tally")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.DemoMode)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestFromEnvSQLiteNeedsNoURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAX_PAGE_SIZE", "25")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 25, cfg.MaxPageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_DRIVER": "postgres", "DATABASE_URL": "", "JWT_SECRET": "s"}},
		{"missing secret", map[string]string{"DATABASE_DRIVER": "sqlite", "JWT_SECRET": ""}},
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mysql", "JWT_SECRET": "s"}},
		{"bad page size", map[string]string{"DATABASE_DRIVER": "sqlite", "JWT_SECRET": "s", "MAX_PAGE_SIZE": "lots"}},
		{"zero page size", map[string]string{"DATABASE_DRIVER": "sqlite", "JWT_SECRET": "s", "MAX_PAGE_SIZE": "0"}},
		{"bad demo flag", map[string]string{"DATABASE_DRIVER": "sqlite", "JWT_SECRET": "s", "DEMO_MODE": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
