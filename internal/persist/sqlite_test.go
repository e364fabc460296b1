package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestSQLite opens a fresh database in a temp dir.
func createTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path, "")
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, DefaultKey, s.Key())
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path, "")
		require.NoError(t, err, "iteration %d", i)
		s.Close()
	}

	s, err := OpenSQLite(path, "")
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenSQLite_NewerSchemaRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path, "")
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	s.Close()

	_, err = OpenSQLite(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db", "")
	assert.Error(t, err)
}

func TestSQLite_LoadEmpty(t *testing.T) {
	s := createTestSQLite(t)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	s := createTestSQLite(t)
	ctx := context.Background()
	want := sampleAccounts()

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	requireSameAccounts(t, want, got)
}

func TestSQLite_SaveOverwrites(t *testing.T) {
	s := createTestSQLite(t)
	ctx := context.Background()
	all := sampleAccounts()

	require.NoError(t, s.Save(ctx, all))
	require.NoError(t, s.Save(ctx, all[:1]))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	requireSameAccounts(t, all[:1], got)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM slots").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLite_SlotsAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	a, err := OpenSQLite(path, "a")
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, sampleAccounts()))
	a.Close()

	b, err := OpenSQLite(path, "b")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_CorruptPayload(t *testing.T) {
	s := createTestSQLite(t)
	_, err := s.db.Exec(
		`INSERT INTO slots (key, payload, schema_version, updated_at) VALUES (?, ?, 1, 'x')`,
		DefaultKey, []byte("{not json"))
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.True(t, IsSchemaError(err), "got %v", err)
}

func TestSQLite_CancelledContext(t *testing.T) {
	s := createTestSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, sampleAccounts())
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound, "cancelled save must not write")
}

func TestSQLite_CloseNilDB(t *testing.T) {
	s := &SQLite{}
	assert.NoError(t, s.Close())
}
