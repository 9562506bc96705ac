// Package store provides SQLite-backed persistence for notes.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/scribe/internal/apperr"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB pool. Work is done through sessions acquired with
// Session; the pool itself is only used for schema setup and health checks.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return apperr.Storage("ping", err)
	}
	return nil
}

// Stats exposes pool statistics, mainly so callers can check that sessions
// are released.
func (db *DB) Stats() sql.DBStats {
	return db.conn.Stats()
}

// Session checks a dedicated connection out of the pool. The caller must
// Close it on every exit path.
func (db *DB) Session(ctx context.Context) (Repository, error) {
	c, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, apperr.Storage("acquire session", err)
	}
	return &Session{conn: c}, nil
}
