// Package iocache persists small documents, such as the saved user and theme,
// in a key-value table on sqlite, mysql or postgresql.
package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PrefsStoreManager holds the process-wide preference store.
type PrefsStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	prefs        contract.KVStore
}

// GetPrefsStore returns the preference store, or nil before InitPrefs.
func (mgr *PrefsStoreManager) GetPrefsStore() contract.KVStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.prefs
}

// openDB opens and pings a database for backend. An empty sqlite connStr
// falls back to the default preference file.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var driverName string
	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		if connStr == "" {
			connStr = contract.GetPrefsDBFilePath()
		}
	case schema.MySQLBackend:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
	case schema.PostgreSQLBackend:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// validateTableName only admits plain SQL identifiers.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf("%q", name)
}
