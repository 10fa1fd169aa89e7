package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// KVStoreImpl stores key-value pairs in one table of a SQL database.
type KVStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.KVStore = &KVStoreImpl{} // Compile-time check

// NewKVStore opens the backend and creates tableName if it does not exist.
// The none backend returns a store that keeps nothing.
func NewKVStore(tableName string, backend schema.DatabaseBackend, connStr string) (*KVStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &KVStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &KVStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// createTableQuery matches the first embedded migration.
func createTableQuery(tableName string, backend schema.DatabaseBackend) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			kv_key VARCHAR(255) PRIMARY KEY,
			kv_value TEXT NOT NULL,
			kv_timestamp BIGINT NOT NULL
		)`, quoteTableName(tableName, backend))
}

// Get retrieves a value and its timestamp. Missing keys return sql.ErrNoRows.
func (ps *KVStoreImpl) Get(key string) ([]byte, int64, error) {
	if ps.db == nil {
		return nil, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT kv_value, kv_timestamp FROM %s WHERE kv_key = %s`,
		quoteTableName(ps.tableName, ps.backend), ps.placeholder(1))

	var value []byte
	var ts int64
	if err := ps.db.QueryRow(query, key).Scan(&value, &ts); err != nil {
		return nil, 0, err
	}
	return value, ts, nil
}

// Set inserts or replaces a key/value pair.
func (ps *KVStoreImpl) Set(key string, value []byte, timestamp int64) error {
	if ps.db == nil {
		return nil
	}
	_, err := ps.db.Exec(ps.upsertQuery(), key, string(value), timestamp)
	return err
}

// Delete removes key if present.
func (ps *KVStoreImpl) Delete(key string) error {
	if ps.db == nil {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE kv_key = %s`,
		quoteTableName(ps.tableName, ps.backend), ps.placeholder(1))
	_, err := ps.db.Exec(query, key)
	return err
}

func (ps *KVStoreImpl) placeholder(n int) string {
	if ps.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (ps *KVStoreImpl) upsertQuery() string {
	table := quoteTableName(ps.tableName, ps.backend)
	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value, kv_timestamp) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE kv_value = new.kv_value, kv_timestamp = new.kv_timestamp`, table)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value, kv_timestamp) VALUES ($1, $2, $3)
			ON CONFLICT (kv_key) DO UPDATE SET kv_value = EXCLUDED.kv_value, kv_timestamp = EXCLUDED.kv_timestamp`, table)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (kv_key, kv_value, kv_timestamp) VALUES (?, ?, ?)`, table)
	}
}

// Close closes the underlying DB connection.
func (ps *KVStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus reports entry counts, the entry time range and an approximate table size.
func (ps *KVStoreImpl) GetStatus() (schema.PrefsStatus, error) {
	status := schema.PrefsStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}
	if ps.db == nil {
		return status, nil
	}

	table := quoteTableName(ps.tableName, ps.backend)
	if err := ps.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row := ps.db.QueryRow(fmt.Sprintf("SELECT MAX(kv_timestamp), MIN(kv_timestamp) FROM %s", table))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = ps.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize asks the database for the table size and falls back to a rough estimate.
func (ps *KVStoreImpl) tableSize(entries int) int64 {
	estimate := int64(entries) * 1000
	var size int64
	switch ps.backend {
	case schema.SQLiteBackend:
		row := ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := ps.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, ps.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		if err := ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName).Scan(&size); err != nil {
			return estimate
		}
	default:
		return estimate
	}
	return size
}
