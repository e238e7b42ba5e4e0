package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/assets"
	"github.com/robalobadob/cartoon-guess/internal/config"
	"github.com/robalobadob/cartoon-guess/internal/console"
	"github.com/robalobadob/cartoon-guess/internal/httpserver"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
	"github.com/robalobadob/cartoon-guess/internal/store"
)

// Usage: cartoon-guess [serve|play]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	kv, closeKV, err := openKV(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer closeKV()
	board := leaderboard.New(kv)

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "serve":
		srv := httpserver.New(cfg, board)
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting cartoon-guess")
		if err := srv.Start(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	case "play":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := console.New(os.Stdin, os.Stdout, board).Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("console exited")
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [serve|play]\n", os.Args[0])
		os.Exit(2)
	}
}

// openKV builds the key-value store selected by STORE_DRIVER.
func openKV(cfg config.Config) (store.KV, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemory(), func() {}, nil
	case config.DriverFile:
		kv, err := store.NewFile(cfg.LeaderboardDir)
		return kv, func() {}, err
	default:
		db, err := store.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(db, assets.Migrations()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return store.NewSQLite(db), func() { _ = db.Close() }, nil
	}
}
