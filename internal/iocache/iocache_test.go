package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *KVStoreImpl {
	t.Helper()
	store, err := NewKVStore(prefsTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestKVStoreRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	_, _, err := store.Get("user")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("user", []byte(`{"id":"1"}`), 100))
	value, ts, err := store.Get("user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(value))
	assert.Equal(t, int64(100), ts)

	require.NoError(t, store.Set("user", []byte(`{"id":"2"}`), 200))
	value, ts, err = store.Get("user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2"}`, string(value))
	assert.Equal(t, int64(200), ts)

	require.NoError(t, store.Delete("user"))
	_, _, err = store.Get("user")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Delete("user"), "deleting a missing key is fine")
}

func TestKVStoreStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalEntries)

	require.NoError(t, store.Set("user", []byte("{}"), 1_700_000_000))
	require.NoError(t, store.Set("theme", []byte("{}"), 1_700_000_500))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, int64(1_700_000_500), status.LastEntryTime.Unix())
	assert.Equal(t, int64(1_700_000_000), status.OldestEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)
}

func TestKVStoreNoneBackend(t *testing.T) {
	store, err := NewKVStore(prefsTable, schema.NoneBackend, "")
	require.NoError(t, err)

	require.NoError(t, store.Set("user", []byte("{}"), 1))
	_, _, err = store.Get("user")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Delete("user"))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewKVStoreRejects(t *testing.T) {
	_, err := NewKVStore("prefs; DROP TABLE x", schema.SQLiteBackend, ":memory:")
	assert.ErrorContains(t, err, "invalid table name")

	_, err = NewKVStore(prefsTable, schema.DatabaseBackend("redis"), "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"prefs_kv", false},
		{"_private", false},
		{"Table2", false},
		{"", true},
		{"2fast", true},
		{"prefs-kv", true},
		{`prefs"kv`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`prefs_kv`", quoteTableName("prefs_kv", schema.MySQLBackend))
	assert.Equal(t, `"prefs_kv"`, quoteTableName("prefs_kv", schema.PostgreSQLBackend))
	assert.Equal(t, `"prefs_kv"`, quoteTableName("prefs_kv", schema.SQLiteBackend))
}

func TestInitPrefs(t *testing.T) {
	reset := func() {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &PrefsStoreManager{}
	}

	t.Run("sqlite is idempotent", func(t *testing.T) {
		reset()
		path := filepath.Join(t.TempDir(), "prefs.db")
		require.NoError(t, InitPrefs(schema.SQLiteBackend, path))
		require.NoError(t, InitPrefs(schema.SQLiteBackend, path))
		require.NotNil(t, Manager.GetPrefsStore())

		require.NoError(t, Manager.GetPrefsStore().Set("k", []byte("v"), 1))
		ClosePrefs()
		ClosePrefs()

		_, err := os.Stat(path)
		assert.NoError(t, err)

		require.NoError(t, ClearPrefs(schema.SQLiteBackend, path))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, ClearPrefs(schema.SQLiteBackend, path), "clearing twice is fine")
	})

	t.Run("none backend", func(t *testing.T) {
		reset()
		require.NoError(t, InitPrefs(schema.NoneBackend, ""))
		status, err := Manager.GetPrefsStore().GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		ClosePrefs()
		assert.NoError(t, ClearPrefs(schema.NoneBackend, ""))
	})

	t.Run("bad backend", func(t *testing.T) {
		reset()
		assert.Error(t, InitPrefs(schema.DatabaseBackend("bogus"), ""))
		assert.Nil(t, Manager.GetPrefsStore())
		assert.Error(t, ClearPrefs(schema.DatabaseBackend("bogus"), ""))
	})
}

func TestMigratePrefs(t *testing.T) {
	t.Run("none backend", func(t *testing.T) {
		err := MigratePrefs(schema.NoneBackend, "", -1)
		assert.ErrorContains(t, err, "not supported")
	})

	t.Run("sqlite up and down", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "migrate.db")
		require.NoError(t, MigratePrefs(schema.SQLiteBackend, path, -1))
		require.NoError(t, MigratePrefs(schema.SQLiteBackend, path, -1), "second run is a no-op")
		require.NoError(t, MigratePrefs(schema.SQLiteBackend, path, 1))
		require.NoError(t, MigratePrefs(schema.SQLiteBackend, path, 0))
		require.NoError(t, MigratePrefs(schema.SQLiteBackend, path, 1))

		store, err := NewKVStore(prefsTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.NoError(t, store.Set("theme", []byte("{}"), 1))
	})

	t.Run("existing table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "existing.db")
		store, err := NewKVStore(prefsTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Set("user", []byte("{}"), 1))
		require.NoError(t, store.Close())

		require.NoError(t, MigratePrefs(schema.SQLiteBackend, path, -1))
	})
}

func TestPrintPrefsStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintPrefsStatus(&buf, schema.PrefsStatus{Backend: "none"})
	assert.Equal(t, "Prefs Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintPrefsStatus(&buf, schema.PrefsStatus{Backend: "sqlite", Connected: true, TableSizeBytes: 4096})
	assert.Contains(t, buf.String(), "Total Entries: 0")
	assert.NotContains(t, buf.String(), "Last Entry")
	assert.Contains(t, buf.String(), "Table Size: 4096 bytes")
}
