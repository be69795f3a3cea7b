package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for establishing a PostgreSQL connection.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Timeout      time.Duration
}

// Open establishes a connection pool, verifies connectivity with a ping,
// and applies the pool limits. A default timeout is applied when none is
// provided.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}
