// Package postgres implements the blob store on a Postgres table.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS workout_blobs (
    blob_key   TEXT PRIMARY KEY,
    blob       BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// BlobStore provides Postgres-backed blob persistence.
type BlobStore struct {
	pool *pgxpool.Pool
}

// NewBlobStore constructs a BlobStore.
func NewBlobStore(pool *pgxpool.Pool) *BlobStore {
	return &BlobStore{pool: pool}
}

// EnsureSchema creates the blob table when missing.
func (s *BlobStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// SetItem upserts the blob at key.
func (s *BlobStore) SetItem(ctx context.Context, key string, blob []byte) error {
	const query = `INSERT INTO workout_blobs (blob_key, blob, updated_at) VALUES ($1, $2, now())
        ON CONFLICT (blob_key) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`
	_, err := s.pool.Exec(ctx, query, key, blob)
	return err
}

// GetItem reads the blob at key.
func (s *BlobStore) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT blob FROM workout_blobs WHERE blob_key=$1`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

// RemoveItem deletes key.
func (s *BlobStore) RemoveItem(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM workout_blobs WHERE blob_key=$1`, key)
	return err
}
