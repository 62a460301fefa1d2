// internal/config/config.go
//
// Environment-driven configuration for the server.
// main loads an optional .env file (godotenv) before calling Load, so every
// value here can come from the process environment or from .env.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/rummy-rooms/internal/game"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port     string
	LogLevel zerolog.Level

	StoreBackend string
	DatabasePath string
	RedisURL     string
	RedisPrefix  string

	Rounding       game.Rounding
	CASMaxAttempts int

	ClientOrigin   string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	Production     bool
}

// Load reads the environment and validates it.
func Load() (*Config, error) {
	c := &Config{
		Port:         getEnv("PORT", "5175"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		DatabasePath: getEnv("DATABASE_PATH", "./data/rummy.db"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:  getEnv("REDIS_PREFIX", "rummy:"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   getEnv("COOKIE_NAME", "rummy_room"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	c.LogLevel = lvl

	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return nil, fmt.Errorf("STORE_BACKEND: unknown backend %q", c.StoreBackend)
	}

	// Scores are stored raw unless SCORE_ROUNDING=nearest5 is set explicitly.
	if c.Rounding, err = game.ParseRounding(getEnv("SCORE_ROUNDING", "raw")); err != nil {
		return nil, fmt.Errorf("SCORE_ROUNDING: %w", err)
	}

	if c.CASMaxAttempts, err = envInt("CAS_MAX_ATTEMPTS", 8); err != nil {
		return nil, err
	}
	if c.CASMaxAttempts < 1 {
		return nil, fmt.Errorf("CAS_MAX_ATTEMPTS must be at least 1, got %d", c.CASMaxAttempts)
	}

	if c.JWTExpiresDays, err = envInt("JWT_EXPIRES_DAYS", 14); err != nil {
		return nil, err
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", k, v)
	}
	return n, nil
}
