package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	JWTSecret      string
	TokenTTL       time.Duration
	MaxPageSize    int
	DemoMode       bool
	AllowedOrigins []string
	CacheTTL       time.Duration
}

// Load reads the environment, after applying an optional .env file.
func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	var err error
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "tally.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
	}

	ttlHours, err := getEnvInt("TOKEN_TTL_HOURS", 168)
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = time.Duration(ttlHours) * time.Hour

	if cfg.MaxPageSize, err = getEnvInt("MAX_PAGE_SIZE", 100); err != nil {
		return Config{}, err
	}

	cacheSeconds, err := getEnvInt("CACHE_TTL_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL = time.Duration(cacheSeconds) * time.Second

	if cfg.DemoMode, err = strconv.ParseBool(getEnv("DEMO_MODE", "false")); err != nil {
		return Config{}, fmt.Errorf("DEMO_MODE: %w", err)
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if ttlHours <= 0 || cfg.MaxPageSize <= 0 {
		return Config{}, errors.New("TOKEN_TTL_HOURS and MAX_PAGE_SIZE must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
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
