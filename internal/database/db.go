package database

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq"

	"taskdeck/internal/config"
	"taskdeck/pkg/logger"
)

var (
	pool *sql.DB
	once sync.Once
)

// DB returns the global database connection pool (initialized on first use).
func DB(ctx context.Context) *sql.DB {
	once.Do(func() {
		cfg := config.Get()
		if cfg.DatabaseURL == "" {
			logger.Error(ctx, "DATABASE_URL is not set")
			return
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error(ctx, "Failed to open database", "error", err)
			return
		}
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(cfg.DBPoolSize / 2)
		pool = db
		logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	})
	return pool
}

// InitDB initializes the DB pool and returns it (for main).
func InitDB(ctx context.Context) *sql.DB {
	return DB(ctx)
}

// MigrateOrCreateSchema creates the users and tasks tables if they do not
// exist. due_date is text, not a timestamp column: the wire contract allows
// date-only values and full instants, and the store passes them through
// untouched.
func MigrateOrCreateSchema(ctx context.Context) error {
	db := DB(ctx)
	if db == nil {
		return sql.ErrConnDone
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS users (
		name TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		user_name TEXT NOT NULL REFERENCES users(name),
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		due_date TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		tag TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_name ON tasks (user_name)`); err != nil {
		return err
	}
	logger.Info(ctx, "Schema ensured")
	return nil
}
