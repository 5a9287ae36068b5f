package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/school-portal/internal/errs"
)

// KV implements storage.Storage over the client_storage table.
// Rows are scoped by namespace so several clients can share one database.
type KV struct {
	db        *DB
	namespace string
}

// NewKV constructs table-backed storage for namespace.
func NewKV(db *DB, namespace string) *KV { return &KV{db: db, namespace: namespace} }

// Get selects the value for key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`
	var v string
	if err := s.db.Pool.QueryRow(ctx, q, s.namespace, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", err
	}
	return v, nil
}

// Set upserts the value for key.
func (s *KV) Set(ctx context.Context, key, value string) error {
	const q = `INSERT INTO client_storage (namespace, key, value, updated_at) VALUES ($1, $2, $3, now()) ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := s.db.Pool.Exec(ctx, q, s.namespace, key, value)
	return err
}

// Remove deletes key; a missing row is not an error.
func (s *KV) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM client_storage WHERE namespace = $1 AND key = $2`
	_, err := s.db.Pool.Exec(ctx, q, s.namespace, key)
	return err
}
