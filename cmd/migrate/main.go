package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/pageza/homeaway/backend/config"
	"github.com/pageza/homeaway/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Error("DATABASE_URL is not set and configuration failed to load", slog.Any("error", err))
			os.Exit(1)
		}
		dsn = cfg.DSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if *rollback {
		err = database.Down(ctx, db)
	} else {
		err = database.Up(ctx, db)
	}
	if err != nil {
		logger.Error("migration failed", slog.Bool("rollback", *rollback), slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations complete", slog.Bool("rollback", *rollback))
}
