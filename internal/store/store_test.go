package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/cryptox"
	"github.com/dmitrijs2005/kp2vcard/internal/logging"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

func creds(pw string) Credentials {
	return Credentials{Password: []byte(pw)}
}

func openTemp(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "contacts.db")
	s, err := OpenSQLite(context.Background(), path, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestCreateOpen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	db, err := s.Create(ctx, creds("hunter2"), "contacts")
	require.NoError(t, err)
	assert.Equal(t, "contacts", db.Root.Name)
	assert.Equal(t, path, s.Path())

	e := vault.NewEntry("Jane Doe")
	e.Set(vault.FieldPhoneNumber, "+1-555-0100")
	e.SetTags([]string{"friends"})
	e.CommitIfChanged()
	db.Root.AddEntry(e)
	db.Root.AddGroup("Work").AddEntry(vault.NewEntry("Bob"))
	require.NoError(t, s.Save(ctx, db, creds("hunter2")))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Open(ctx, creds("hunter2"))
	require.NoError(t, err)
	if diff := cmp.Diff(db, got); diff != "" {
		t.Fatalf("reopened tree mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_WrongPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	_, err := s.Create(ctx, creds("right"), "root")
	require.NoError(t, err)

	_, err = s.Open(ctx, creds("wrong"))
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestOpen_NotInitialized(t *testing.T) {
	s, _ := openTemp(t)

	ok, err := s.Initialized(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Open(context.Background(), creds("x"))
	require.ErrorIs(t, err, common.ErrNotInitialized)
}

func TestCreate_Twice(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	_, err := s.Create(ctx, creds("pw"), "root")
	require.NoError(t, err)

	ok, err := s.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Create(ctx, creds("pw"), "root")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestCreate_EmptyPassword(t *testing.T) {
	s, _ := openTemp(t)
	_, err := s.Create(context.Background(), creds(""), "root")
	require.ErrorIs(t, err, common.ErrEmptyPassword)
}

func TestSave_WrongPasswordLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	db, err := s.Create(ctx, creds("right"), "root")
	require.NoError(t, err)

	db.Root.AddEntry(vault.NewEntry("Eve"))
	require.ErrorIs(t, s.Save(ctx, db, creds("wrong")), common.ErrUnauthorized)

	got, err := s.Open(ctx, creds("right"))
	require.NoError(t, err)
	assert.Equal(t, 0, vault.Count(got.Root))
}

func TestOpen_CorruptedPayload(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	_, err := s.Create(ctx, creds("pw"), "root")
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE vault SET payload = X'00010203' WHERE id = 1`)
	require.NoError(t, err)

	_, err = s.Open(ctx, creds("pw"))
	require.ErrorIs(t, err, cryptox.ErrDecrypt)
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	_, err := s.Create(ctx, creds("pw"), "root")
	require.NoError(t, err)

	require.NoError(t, newMetadataRepository(s.db).Set(ctx, keyFormatVersion, []byte("99")))

	_, err = s.Open(ctx, creds("pw"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenSQLite_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:", logging.Discard())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Create(ctx, creds("pw"), "mem")
	require.NoError(t, err)
	got, err := s.Open(ctx, creds("pw"))
	require.NoError(t, err)
	assert.Equal(t, "mem", got.Root.Name)
}

func TestCredentials_Wipe(t *testing.T) {
	c := creds("secret")
	c.Wipe()
	assert.Equal(t, make([]byte, 6), c.Password)
}
