// Package database owns the Postgres connection and schema migrations
// for persisted summaries and transcripts.
package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/recapd/recapd/internal/config"
)

const connectTimeout = 5 * time.Second

// DB wraps the sqlx handle so callers close the pool through one type.
type DB struct {
	*sqlx.DB
}

// Connect opens a pooled connection and verifies it is reachable before
// returning. Summaries are written once and read rarely, so the pool
// stays small.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Open("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &DB{db}, nil
}

// dsn renders the configuration as a postgres:// URL, the one form both
// the driver and the migration tool accept.
func dsn(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}
