// Package store persists the contact tree in a local SQLite file.
//
// The whole tree is serialized to JSON and sealed with AES-GCM under a master
// key derived from the user's password with argon2id. The file keeps the salt
// and a verifier of the key in a metadata table so a wrong password is
// detected before decryption is attempted.
//
// Schema changes are applied with goose from the embedded migrations on
// every open.
package store

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/cryptox"
	"github.com/dmitrijs2005/kp2vcard/internal/dbx"
	"github.com/dmitrijs2005/kp2vcard/internal/filex"
	"github.com/dmitrijs2005/kp2vcard/internal/logging"
	"github.com/dmitrijs2005/kp2vcard/internal/store/migrations"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

const (
	saltSize = 32

	// formatVersion is written on every save and checked on open.
	formatVersion = "1"

	memoryDSN = ":memory:"
)

var ErrUnsupportedFormat = errors.New("unsupported store format")

// Credentials unlock a store.
type Credentials struct {
	Password []byte
}

// Wipe zeroes the password in place.
func (c Credentials) Wipe() {
	common.WipeByteArray(c.Password)
}

// Store loads and saves a whole contact tree.
type Store interface {
	Open(ctx context.Context, creds Credentials) (*vault.Database, error)
	Save(ctx context.Context, db *vault.Database, creds Credentials) error
	Close() error
}

// SQLiteStore is a Store backed by a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  logging.Logger
	now  func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the SQLite file at path and brings
// its schema up to date. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string, log logging.Logger) (*SQLiteStore, error) {
	if path != memoryDSN {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:"
	// stable across calls.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	log.Debug(ctx, "store opened", "path", path)
	return &SQLiteStore{db: db, path: path, log: log, now: time.Now}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Path returns the location the store was opened from.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Initialized reports whether Create has been run on this store.
func (s *SQLiteStore) Initialized(ctx context.Context) (bool, error) {
	salt, err := newMetadataRepository(s.db).Get(ctx, keySalt)
	if err != nil {
		return false, err
	}
	return salt != nil, nil
}

// Create initialises an empty store whose root group is named rootName and
// returns the new tree. It fails with common.ErrAlreadyExists when the store
// already holds data.
func (s *SQLiteStore) Create(ctx context.Context, creds Credentials, rootName string) (*vault.Database, error) {
	if len(creds.Password) == 0 {
		return nil, common.ErrEmptyPassword
	}

	ok, err := s.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, common.ErrAlreadyExists
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(creds.Password, salt)
	defer common.WipeByteArray(key)

	db := vault.NewDatabase(rootName)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := newMetadataRepository(tx)
		if err := meta.Set(ctx, keySalt, salt); err != nil {
			return err
		}
		if err := meta.Set(ctx, keyVerifier, cryptox.MakeVerifier(key)); err != nil {
			return err
		}
		return s.seal(ctx, tx, db, key)
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.log.Info(ctx, "store created", "path", s.path, "root", rootName)
	return db, nil
}

// Open decrypts and returns the stored tree.
//
// It returns common.ErrNotInitialized for a store that was never created and
// common.ErrUnauthorized when the password does not match.
func (s *SQLiteStore) Open(ctx context.Context, creds Credentials) (*vault.Database, error) {
	key, err := s.unlock(ctx, s.db, creds)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	sealed, err := newVaultRepository(s.db).Get(ctx)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, common.ErrNotInitialized
	}

	db := &vault.Database{}
	if err := cryptox.DecryptJSON(sealed.Payload, sealed.Nonce, key, db); err != nil {
		return nil, fmt.Errorf("decode vault: %w", err)
	}

	s.log.Info(ctx, "store unlocked", "path", s.path, "entries", vault.Count(db.Root), "saved_at", sealed.UpdatedAt)
	return db, nil
}

// Save seals db and replaces the stored tree in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, db *vault.Database, creds Credentials) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		key, err := s.unlock(ctx, tx, creds)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(key)

		if err := s.seal(ctx, tx, db, key); err != nil {
			return err
		}
		s.log.Debug(ctx, "store saved", "path", s.path, "entries", vault.Count(db.Root))
		return nil
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// unlock derives the master key from creds and checks it against the stored
// verifier and format version.
func (s *SQLiteStore) unlock(ctx context.Context, q dbx.DBTX, creds Credentials) ([]byte, error) {
	meta, err := newMetadataRepository(q).List(ctx)
	if err != nil {
		return nil, err
	}

	salt, verifier := meta[keySalt], meta[keyVerifier]
	if salt == nil || verifier == nil {
		return nil, common.ErrNotInitialized
	}
	if v := string(meta[keyFormatVersion]); v != formatVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, v)
	}

	key := cryptox.DeriveMasterKey(creds.Password, salt)
	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) == 0 {
		common.WipeByteArray(key)
		return nil, common.ErrUnauthorized
	}
	return key, nil
}

func (s *SQLiteStore) seal(ctx context.Context, q dbx.DBTX, db *vault.Database, key []byte) error {
	payload, nonce, err := cryptox.EncryptJSON(db, key)
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}

	if err := newVaultRepository(q).Put(ctx, &sealedVault{
		Payload:   payload,
		Nonce:     nonce,
		UpdatedAt: s.now(),
	}); err != nil {
		return err
	}
	return newMetadataRepository(q).Set(ctx, keyFormatVersion, []byte(formatVersion))
}
