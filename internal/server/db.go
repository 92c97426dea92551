package server

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rverdone/quadro/internal/storage"
	"github.com/rverdone/quadro/internal/storage/sqlite"
)

// DB is the service-side database: a plain file-backed SQLite instance that
// answers whatever SQL the query/execute endpoints hand it. It bootstraps the
// same schema the embedded engine uses so a fresh service is immediately
// usable.
type DB struct {
	conn *sql.DB
}

func NewDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(sqlite.Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Query runs a read statement and returns the rows as plain records, the
// shape the wire contract's results array serializes from.
func (db *DB) Query(query string, params []any) ([]storage.Record, error) {
	rows, err := db.conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return storage.ScanRecords(rows)
}

// Execute runs a write statement.
func (db *DB) Execute(query string, params []any) error {
	_, err := db.conn.Exec(query, params...)
	return err
}

func (db *DB) Close() error {
	return db.conn.Close()
}
