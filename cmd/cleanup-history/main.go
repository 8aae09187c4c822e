// Command cleanup-history removes lookup history older than the configured
// retention period. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres"
	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres/history"
	"github.com/heartmarshall/quicktranslate/internal/app"
	"github.com/heartmarshall/quicktranslate/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if !cfg.Database.Enabled() {
		logger.Error("database is not configured; set DATABASE_DSN")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	threshold := time.Now().AddDate(0, 0, -cfg.History.RetentionDays)

	deleted, err := history.New(pool).DeleteOlderThan(ctx, threshold)
	if err != nil {
		logger.Error("history cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("history cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
