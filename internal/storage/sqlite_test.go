// ABOUTME: Tests for the SQLite preference repository.
// ABOUTME: Covers the shared contract and persistence across reopen.
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "hydrate.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, dbPath
}

func TestSQLiteRepositoryContract(t *testing.T) {
	db, _ := setupTestDB(t)
	testRepositoryContract(t, db)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	db, dbPath := setupTestDB(t)

	require.NoError(t, db.Apply(Changes{Set: map[string]string{"today_intake": "750"}}))
	require.NoError(t, db.Close())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	values, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "750", values["today_intake"])
	assert.Equal(t, dbPath, reopened.Path())
}

func TestSQLiteOpenCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "hydrate.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDataDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	assert.Equal(t, "/tmp/xdg-data/hydrate", DataDir())
}
