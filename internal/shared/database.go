package shared

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
// Foreign key enforcement is enabled through the DSN so it applies to every
// connection the pool opens; the cascade rules in the schema depend on it.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", databaseDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

var memoryDatabaseSeq atomic.Int64

// databaseDSN appends the foreign-key parameter so each pooled connection
// enforces cascades. ":memory:" becomes a uniquely named shared-cache
// database: without the shared cache every pooled connection would see its
// own empty in-memory database.
func databaseDSN(path string) string {
	if path == ":memory:" {
		return fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_foreign_keys=on", memoryDatabaseSeq.Add(1))
	}
	if strings.ContainsRune(path, '?') {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// ConfigureDatabase sets connection pool settings for the database.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

var (
	sharedMu sync.Mutex
	sharedDB *sql.DB
)

// OpenSharedDatabase returns the process-wide database handle, opening it on
// first use. Subsequent calls return the existing handle regardless of path;
// the handle lives for the process lifetime.
func OpenSharedDatabase(path string) (*sql.DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDB != nil {
		return sharedDB, nil
	}

	db, err := NewDatabase(path)
	if err != nil {
		return nil, err
	}

	sharedDB = db
	return sharedDB, nil
}

// CloseSharedDatabase closes the process-wide handle. Safe to call when no
// handle was ever opened.
func CloseSharedDatabase() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDB == nil {
		return nil
	}

	err := sharedDB.Close()
	sharedDB = nil
	return err
}
