package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rummy-rooms/internal/config"
	"github.com/robalobadob/rummy-rooms/internal/httpserver"
	"github.com/robalobadob/rummy-rooms/internal/rooms"
	"github.com/robalobadob/rummy-rooms/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open room store")
	}
	defer st.Close()

	svc := rooms.NewService(st,
		rooms.WithRounding(cfg.Rounding),
		rooms.WithMaxAttempts(cfg.CASMaxAttempts),
	)
	srv := httpserver.New(svc, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		JWTSecret:      cfg.JWTSecret,
		JWTExpiresDays: cfg.JWTExpiresDays,
		CookieName:     cfg.CookieName,
		Secure:         cfg.Production,
	})

	log.Info().
		Str("port", cfg.Port).
		Str("backend", cfg.StoreBackend).
		Str("rounding", cfg.Rounding.String()).
		Msg("starting rummy-rooms")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openStore picks the room store named by STORE_BACKEND.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return store.NewSQLiteStore(cfg.DatabasePath)
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.DialRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		return store.NewMemoryStore(), nil
	}
}
