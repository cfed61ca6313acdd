package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kp2vcard/internal/dbx"
)

// Metadata keys.
const (
	keySalt          = "salt"
	keyVerifier      = "verifier"
	keyFormatVersion = "format_version"
)

// metadataRepository stores small key/value records next to the sealed tree.
type metadataRepository struct {
	db dbx.DBTX
}

func newMetadataRepository(db dbx.DBTX) *metadataRepository {
	return &metadataRepository{db: db}
}

// Get returns (nil, nil) when key is absent.
func (r *metadataRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *metadataRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *metadataRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}

// sealedVault is the single encrypted snapshot row.
type sealedVault struct {
	Payload   []byte
	Nonce     []byte
	UpdatedAt time.Time
}

type vaultRepository struct {
	db dbx.DBTX
}

func newVaultRepository(db dbx.DBTX) *vaultRepository {
	return &vaultRepository{db: db}
}

// Get returns (nil, nil) when nothing has been saved yet.
func (r *vaultRepository) Get(ctx context.Context) (*sealedVault, error) {
	var (
		v         sealedVault
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, nonce, updated_at FROM vault WHERE id = 1`,
	).Scan(&v.Payload, &v.Nonce, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}

	v.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault timestamp %q: %w", updatedAt, err)
	}
	return &v, nil
}

func (r *vaultRepository) Put(ctx context.Context, v *sealedVault) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vault (id, payload, nonce, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at
	`, v.Payload, v.Nonce, v.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to put vault: %w", err)
	}
	return nil
}
