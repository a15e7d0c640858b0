package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	v1 "github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/v1"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/config"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/metrics"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/seed"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/store/memory"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/store/postgres"
	redisstore "github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// A .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var broker ws.Broker
	if cfg.Redis.Addr != "" {
		boards, err := redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer boards.Close()
		broker = boards
	} else {
		log.Info().Msg("redis not configured, board events stay in-process")
		broker = ws.NewLocalBroker()
	}

	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.TTL, cfg.Auth.LoginDelay)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, store, broker, authSvc, metrics.New("nexus"))

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("store", cfg.Store).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

func setupLogging(c config.LogConfig) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// openStore returns the configured backend and its release func. Both
// backends start from the bundled seed data.
func openStore(ctx context.Context, cfg *config.Config) (v1.DataStore, func(), error) {
	fixture, err := seed.Default(time.Now())
	if err != nil {
		return nil, nil, err
	}

	if cfg.Store == config.StoreMemory {
		return memory.New(fixture), func() {}, nil
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return nil, nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	if cfg.Database.Seed {
		if err := store.Seed(ctx, fixture); err != nil {
			store.Close()
			return nil, nil, err
		}
	}
	return store, store.Close, nil
}
