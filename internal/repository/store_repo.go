package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StoreSQLite keeps JSON documents in the collections table.
type StoreSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewStoreSQLite(db *sql.DB) *StoreSQLite {
	return &StoreSQLite{db: db, now: time.Now}
}

var _ Store = (*StoreSQLite)(nil)

const (
	upsertCollectionSQL = `
		INSERT INTO collections (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`

	selectCollectionSQL = `SELECT payload FROM collections WHERE name=?`
)

// Save writes the document inside a transaction; the transaction is rolled
// back on every path that does not reach Commit.
func (s *StoreSQLite) Save(ctx context.Context, collection string, v any) (err error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", collection, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertCollectionSQL, collection, string(payload), s.now().UTC()); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", collection, err)
	}
	return nil
}

// Load reads and decodes the named document.
func (s *StoreSQLite) Load(ctx context.Context, collection string, v any) (bool, error) {
	var payload string
	if err := s.db.QueryRowContext(ctx, selectCollectionSQL, collection).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", collection, err)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", collection, err)
	}
	return true, nil
}
