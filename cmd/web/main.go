package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ecoh04/paperwalls/internal/config"
	apphttp "github.com/ecoh04/paperwalls/internal/http"
	"github.com/ecoh04/paperwalls/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	store, err := storage.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage ready", "driver", store.Driver)

	r := apphttp.NewRouter(cfg, logger, db, store.Storage)

	logger.Info("listening", "addr", cfg.Addr(), "env", cfg.Env)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
