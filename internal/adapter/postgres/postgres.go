// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydration/internal/domain"

	"github.com/lib/pq"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', ip TEXT NOT NULL DEFAULT '', expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		"CREATE TABLE IF NOT EXISTS intake_records (" +
			"id BIGSERIAL PRIMARY KEY, " +
			"user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, " +
			"occurred_at TIMESTAMPTZ NOT NULL, " +
			"volume_ml DOUBLE PRECISION NOT NULL CHECK (volume_ml >= 0), " +
			"volume_unit TEXT NOT NULL CHECK (volume_unit IN ('ml','l','floz')), " +
			"created_at TIMESTAMPTZ NOT NULL DEFAULT now(), " +
			"updated_at TIMESTAMPTZ NOT NULL DEFAULT now(), " +
			"CONSTRAINT intake_records_user_instant_key UNIQUE (user_id, occurred_at));",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// translateUnique maps the store's uniqueness-constraint rejection on
// (user_id, occurred_at) to the domain error, so a write that raced past the
// application-level guard still surfaces as a duplicate, not as a generic
// infrastructure failure.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "intake_records_user_instant_key" {
		return domain.ErrDuplicateTimestamp
	}
	return err
}
