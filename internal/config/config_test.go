package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/rummy-rooms/internal/game"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "STORE_BACKEND", "DATABASE_PATH", "REDIS_URL", "REDIS_PREFIX",
		"SCORE_ROUNDING", "CAS_MAX_ATTEMPTS", "CLIENT_ORIGIN", "JWT_SECRET",
		"JWT_EXPIRES_DAYS", "COOKIE_NAME", "NODE_ENV",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, BackendMemory, c.StoreBackend)
	assert.Equal(t, game.RoundingRaw, c.Rounding)
	assert.Equal(t, 8, c.CASMaxAttempts)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.Equal(t, "rummy_room", c.CookieName)
	assert.False(t, c.Production)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("SCORE_ROUNDING", "nearest5")
	t.Setenv("CAS_MAX_ATTEMPTS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, c.StoreBackend)
	assert.Equal(t, game.RoundingNearest5, c.Rounding)
	assert.Equal(t, 3, c.CASMaxAttempts)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"backend":          {"STORE_BACKEND", "postgres"},
		"rounding":         {"SCORE_ROUNDING", "tens"},
		"attempts not int": {"CAS_MAX_ATTEMPTS", "many"},
		"attempts zero":    {"CAS_MAX_ATTEMPTS", "0"},
		"log level":        {"LOG_LEVEL", "loud"},
		"jwt days":         {"JWT_EXPIRES_DAYS", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	c, err := Load()
	require.NoError(t, err)
	assert.True(t, c.Production)
}
