package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/database"
	"github.com/cmlabs-hris/smart-hr-go/internal/repository/keyvalue"
	"github.com/jackc/pgx/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// KV stores blobs as jsonb rows of the kv_store table.
type KV struct {
	db *database.DB
}

// NewKV creates the kv_store table if needed.
func NewKV(ctx context.Context, db *database.DB) (*KV, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &KV{db: db}, nil
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	q := GetQuerier(ctx, k.db)

	var value []byte
	err := q.QueryRow(ctx, `SELECT value::text FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, keyvalue.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	q := GetQuerier(ctx, k.db)

	_, err := q.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	q := GetQuerier(ctx, k.db)

	if _, err := q.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (k *KV) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, k.db, fn)
}
