package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marque/config"
	"marque/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Connect opens the Postgres pool and verifies it with a short retry loop
// to ride out temporary DNS/network blips at startup.
func Connect(cfg *config.Config) *sql.DB {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Sugar.Fatalf("Failed to open database connection: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	logger.Sugar.Fatalf("Could not connect to database after retries: %v", err)
	return nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}
