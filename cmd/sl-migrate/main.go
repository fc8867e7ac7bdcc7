package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
	"github.com/tuanvumaihuynh/stock-ledger/internal/log"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "starting database migration",
		slog.String("host", cfg.Postgres.Host), slog.String("database", cfg.Postgres.DB))

	from, to, err := db.Migrate(pgxPool)
	if err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	if from == to {
		logger.InfoContext(ctx, "database schema is up to date", slog.Int64("version", to))
		return nil
	}
	logger.InfoContext(ctx, "database migration completed successfully",
		slog.Int64("from_version", from), slog.Int64("to_version", to))

	return nil
}
