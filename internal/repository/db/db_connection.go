package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// Connection pragmas, applied by the driver to every new connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(ON)",
	"busy_timeout(5000)",
}

// migrations are applied in order; PRAGMA user_version records how many
// have run. Append only.
var migrations = []string{
	// 1: named JSON documents (timers, protection, voltage)
	`CREATE TABLE IF NOT EXISTS collections (
		name       TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	// 2: relay event log
	`CREATE TABLE IF NOT EXISTS relay_events (
		id          TEXT PRIMARY KEY,
		occurred_at TIMESTAMP NOT NULL,
		type        TEXT NOT NULL,
		message     TEXT NOT NULL,
		meta        TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_relay_events_occurred_at ON relay_events (occurred_at)`,
	// 4: API users
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT UNIQUE NOT NULL COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL
	)`,
}

// dsn builds a modernc.org/sqlite data source name carrying the pragmas.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// InitDB opens or creates the SQLite file at path and brings its schema up
// to date.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer: the controller loop and the HTTP handlers share one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the migrations db has not seen yet in one transaction and
// returns the resulting schema version.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if version > len(migrations) {
		return version, fmt.Errorf("schema version %d is newer than this build (%d)", version, len(migrations))
	}
	if version == len(migrations) {
		return version, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return version, fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := version; i < len(migrations); i++ {
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			return version, fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
		return version, fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return version, fmt.Errorf("commit migration: %w", err)
	}
	return len(migrations), nil
}
