// Package sqlite implements the blob store on a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const table = "blob_store"

// BlobStore persists blobs in a key/value table.
type BlobStore struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// The caller must call Close when done.
func Open(path string, log *zap.Logger) (*BlobStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer keeps the snapshot overwrite serialised
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &BlobStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migration: %w", err)
	}
	return s, nil
}

func (s *BlobStore) migrate() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    k  TEXT PRIMARY KEY,
    v  BLOB NOT NULL,
    ts INTEGER NOT NULL
);`, table)
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create %s table: %w", table, err)
	}
	s.log.Debug("sqlite migration applied")
	return nil
}

// SetItem upserts the blob at key.
func (s *BlobStore) SetItem(ctx context.Context, key string, blob []byte) error {
	ts := time.Now().UTC().Unix()
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s(k, v, ts) VALUES(?, ?, ?)
ON CONFLICT(k) DO UPDATE SET v=excluded.v, ts=excluded.ts;`, table),
		key, blob, ts,
	); err != nil {
		return err
	}
	s.log.Debug("blob written", zap.String("key", key), zap.Int("bytes", len(blob)))
	return nil
}

// GetItem reads the blob at key.
func (s *BlobStore) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT v FROM %s WHERE k=?`, table), key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

// RemoveItem deletes key.
func (s *BlobStore) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE k=?`, table), key)
	return err
}

// Close shuts down the database connection.
func (s *BlobStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
