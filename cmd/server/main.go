package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/duckrace/internal/api"
	"github.com/mcoot/duckrace/internal/app"
	"github.com/mcoot/duckrace/internal/factory"
	"github.com/mcoot/duckrace/internal/services/room"
	redisstorage "github.com/mcoot/duckrace/internal/storage/redis"
)

func main() {
	// Load local .env (dev only)
	envErr := godotenv.Load()

	bootLogger := app.NewLogger(os.Getenv("APP_ENV"), os.Stdout)
	cfg := app.LoadConfig(bootLogger)
	logger := app.NewLogger(cfg.Env, os.Stdout)
	slog.SetDefault(logger)

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("could not load .env", slog.Any("error", envErr))
	}

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		RoomConfig: room.Config{
			ResetDelay:    cfg.ResetDelay,
			SweepInterval: cfg.SweepInterval,
		},
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	application, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(application.Router(cfg.StaticDir), serverConfig, logger)
	server.OnShutdown(application.Hub.CloseAll)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := server.Listen(); err != nil {
		logger.Error("failed to bind", slog.Any("error", err))
		os.Exit(1)
	}

	go application.Sweeper.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("duck race server started",
		slog.String("addr", server.Addr()),
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.StorageType))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
