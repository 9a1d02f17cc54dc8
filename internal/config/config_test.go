// ABOUTME: Tests for hydrate configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/hydrate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config file and env overrides at nothing.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HYDRATE_BACKEND", "")
	t.Setenv("HYDRATE_DATA_DIR", "")
	return dir
}

func TestGetBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", BackendSQLite},
		{"badger", BackendBadger},
		{"Badger", BackendBadger},
		{"CHARM", BackendCharm},
	}

	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend}
		assert.Equal(t, tt.want, cfg.GetBackend(), "backend %q", tt.backend)
	}
}

func TestGetDataDir(t *testing.T) {
	home, _ := os.UserHomeDir()

	assert.Equal(t, storage.DataDir(), (&Config{}).GetDataDir())
	assert.Equal(t, "/srv/water", (&Config{DataDir: "/srv/water"}).GetDataDir())
	assert.Equal(t, filepath.Join(home, "water"), (&Config{DataDir: "~/water"}).GetDataDir())
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data/hydrate", filepath.Join(home, "data", "hydrate")},
		{"/tmp/foo", "/tmp/foo"},
		{"data/hydrate", "data/hydrate"},
		{"~other/data", "~other/data"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), "ExpandPath(%q)", tt.in)
	}
}

func TestValidateBackend(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"sqlite", false},
		{"badger", false},
		{"charm", false},
		{"SQLite", false},
		{"markdown", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBackend(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown backend")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"sqlite", "/data/hydrate.db"},
		{"badger", "/data/badger"},
		{"charm", "charm kv database hydrate"},
		{"floppy", ""},
	}

	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend, DataDir: "/data"}
		assert.Equal(t, tt.want, cfg.StoragePath(), "backend %s", tt.backend)
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, filepath.Join(dir, "hydrate", "config.json"), GetConfigPath())
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
	assert.Equal(t, BackendSQLite, cfg.GetBackend())
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "missing"))

	require.NoError(t, (&Config{Backend: "badger", DataDir: "/tmp/hydrate-data"}).Save())
	assert.FileExists(t, filepath.Join(dir, "missing", "hydrate", "config.json"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "badger", loaded.Backend)
	assert.Equal(t, "/tmp/hydrate-data", loaded.DataDir)
}

func TestSaveOmitsEmptyFields(t *testing.T) {
	isolate(t)

	require.NoError(t, (&Config{}).Save())
	data, err := os.ReadFile(GetConfigPath())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestLoadInvalidJSON(t *testing.T) {
	isolate(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(GetConfigPath()), 0750))
	require.NoError(t, os.WriteFile(GetConfigPath(), []byte("invalid json"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, (&Config{Backend: "sqlite", DataDir: "/tmp/from-file"}).Save())

	t.Setenv("HYDRATE_BACKEND", "badger")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "badger", loaded.Backend)
	assert.Equal(t, "/tmp/from-file", loaded.DataDir, "unset variables leave file values alone")
}

func TestLoadEnvDataDir(t *testing.T) {
	isolate(t)
	t.Setenv("HYDRATE_DATA_DIR", "~/water")

	loaded, err := Load()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "water"), loaded.GetDataDir())
}

func TestOpenStorage(t *testing.T) {
	tests := []struct {
		backend string
		created string
	}{
		{"", "hydrate.db"},
		{"sqlite", "hydrate.db"},
		{"badger", "badger"},
	}

	for _, tt := range tests {
		t.Run("backend="+tt.backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &Config{Backend: tt.backend, DataDir: dir}

			repo, err := cfg.OpenStorage()
			require.NoError(t, err)
			defer func() { _ = repo.Close() }()

			values, err := repo.Load()
			require.NoError(t, err)
			assert.Empty(t, values)
			_, err = os.Stat(filepath.Join(dir, tt.created))
			assert.NoError(t, err, "expected %s to be created", tt.created)
		})
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	_, err := (&Config{Backend: "invalid", DataDir: t.TempDir()}).OpenStorage()
	assert.Error(t, err)
}
