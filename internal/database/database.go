// Package database opens the optional Postgres study journal.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the journal tables if needed.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS artifacts (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	content JSONB,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_document ON artifacts(document_id, created_at DESC);

CREATE TABLE IF NOT EXISTS quiz_attempts (
	id TEXT PRIMARY KEY,
	quiz_id TEXT NOT NULL,
	document_id TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	score INTEGER NOT NULL,
	total INTEGER NOT NULL,
	percentage DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_created ON quiz_attempts(created_at DESC);

CREATE TABLE IF NOT EXISTS focus_sessions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	completed_count INTEGER NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
