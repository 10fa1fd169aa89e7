package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// prefsTable is the name of the key-value table for preferences.
const prefsTable = "prefs_kv"

// Global Manager instance for the CLI.
var (
	Manager   = &PrefsStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitPrefs opens the global preference store. Later calls are no-ops.
func InitPrefs(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewKVStore(prefsTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize preference store: %w", err)
			return
		}
		Manager.Lock()
		Manager.prefs = store
		Manager.Unlock()
	})
	return initErr
}

// ClosePrefs should be called on application shutdown.
func ClosePrefs() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.prefs != nil {
			_ = Manager.prefs.Close()
		}
	})
}

// ClearPrefs removes every stored preference.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops the table.
func ClearPrefs(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		path := connStr
		if path == "" {
			path = contract.GetPrefsDBFilePath()
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", path, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTable(backend, connStr, prefsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported preference backend for clearing: %s", backend)
	}
}

// dropTable connects to the SQL database and drops the table if it exists.
func dropTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
