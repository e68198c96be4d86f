// Package db provides PostgreSQL-backed resume metadata storage. It is the
// durable alternative to the JSON file store for deployments where the resume
// corpus must outlive a single machine.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the resumes table and its indexes if they do not exist.
// The partial unique index enforces the one-live-record-per-slot invariant
// at the storage layer as well.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resumes (
			resume_id UUID PRIMARY KEY,
			vector_slot INTEGER NOT NULL,
			filename TEXT NOT NULL,
			raw_text TEXT NOT NULL,
			sections JSONB,
			skills TEXT[],
			experience_years INTEGER,
			education TEXT[],
			contact_info JSONB,
			content_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			embedding_generated BOOLEAN NOT NULL DEFAULT TRUE,
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS resumes_live_slot
			ON resumes (vector_slot) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS resumes_live_hash
			ON resumes (content_hash) WHERE deleted_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
