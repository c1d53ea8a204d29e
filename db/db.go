package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"berlingo_backend/config"
)

// Open connects to the configured database. SQLite (pure Go driver) is the
// default for single-node deploys; Postgres for anything shared.
func Open(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBType {
	case "postgres":
		dsn := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		database, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("error connecting to the database: %w", err)
		}
		if err = database.Ping(); err != nil {
			return nil, fmt.Errorf("error pinging database: %w", err)
		}
		return database, nil

	case "sqlite":
		database, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("error opening sqlite database: %w", err)
		}
		database.Exec("PRAGMA journal_mode=WAL")
		if err = database.Ping(); err != nil {
			return nil, fmt.Errorf("error pinging database: %w", err)
		}
		return database, nil

	default:
		return nil, fmt.Errorf("unknown DB_TYPE %q", cfg.DBType)
	}
}
