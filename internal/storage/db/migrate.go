package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate applies every pending migration embedded in the binary and returns
// the schema version before and after.
func Migrate(pool *pgxpool.Pool) (from, to int64, err error) {
	err = withGoose(pool, func(sqlDB *sql.DB) error {
		var vErr error
		if from, vErr = goose.GetDBVersion(sqlDB); vErr != nil {
			return fmt.Errorf("goose version: %w", vErr)
		}
		if err := goose.Up(sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		if to, vErr = goose.GetDBVersion(sqlDB); vErr != nil {
			return fmt.Errorf("goose version: %w", vErr)
		}
		return nil
	})
	return from, to, err
}

func withGoose(pool *pgxpool.Pool, fn func(*sql.DB) error) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	return fn(sqlDB)
}
