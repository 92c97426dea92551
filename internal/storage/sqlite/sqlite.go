// Package sqlite is the embedded storage backend: a single in-memory SQLite
// database whose whole image is serialized to a durable sink after every
// mutation. There is no WAL and no per-row durability; the serialized image is
// the only thing that survives the process.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/rverdone/quadro/internal/storage"
)

// Store owns the in-memory engine handle. The handle and its sink are meant
// to live for the whole process; there is no teardown beyond Close.
type Store struct {
	db          *sql.DB
	sink        Sink
	initialized bool
}

// New returns an uninitialized store writing its image to sink. A nil sink
// disables durability; useful for tests.
func New(sink Sink) *Store {
	return &Store{sink: sink}
}

// Init is idempotent: it opens the in-memory engine, restores the prior image
// from the sink when one exists, bootstraps tables and indexes, and seeds
// sample rows into an empty widgets table. It reports false instead of
// returning an error; a false backend must not be used.
func (s *Store) Init() bool {
	if s.initialized {
		return true
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		log.Printf("failed to open sqlite database: %v", err)
		return false
	}
	// The whole store is one memory-backed connection; a second pooled
	// connection would see a different empty database.
	db.SetMaxOpenConns(1)

	if s.sink != nil {
		data, err := s.sink.Load()
		if err != nil {
			log.Printf("failed to load database image: %v", err)
		} else if len(data) > 0 {
			if err := restore(db, data); err != nil {
				log.Printf("failed to restore database image: %v", err)
			}
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		log.Printf("failed to create tables: %v", err)
		db.Close()
		return false
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM widgets`).Scan(&count); err != nil {
		log.Printf("failed to count widgets: %v", err)
		db.Close()
		return false
	}
	if count == 0 {
		if err := seedSamples(db); err != nil {
			log.Printf("failed to seed sample data: %v", err)
			db.Close()
			return false
		}
	}

	s.db = db
	s.initialized = true
	return true
}

// Query binds positional parameters, steps through the result set and returns
// plain records. Engine errors are logged and replaced with a generic failure
// so raw SQLite messages never reach callers.
func (s *Store) Query(query string, params []any) ([]storage.Record, error) {
	if !s.Init() {
		return nil, errors.New("database not initialized")
	}

	rows, err := s.db.Query(query, params...)
	if err != nil {
		log.Printf("sqlite query error: %v", err)
		return nil, errors.New("failed to query database")
	}
	defer rows.Close()

	records, err := storage.ScanRecords(rows)
	if err != nil {
		log.Printf("sqlite query error: %v", err)
		return nil, errors.New("failed to query database")
	}
	return records, nil
}

// Execute runs a write statement. Success is the boolean; engine errors still
// surface as an error alongside false.
func (s *Store) Execute(query string, params []any) (bool, error) {
	if !s.Init() {
		return false, errors.New("database not initialized")
	}

	if _, err := s.db.Exec(query, params...); err != nil {
		log.Printf("sqlite execute error: %v", err)
		return false, errors.New("failed to execute database operation")
	}
	return true, nil
}

// Persist serializes the full in-memory database and overwrites the sink.
// This is the only durability mechanism; every repository mutation must call
// it through the router before reporting success.
func (s *Store) Persist() error {
	if s.db == nil || s.sink == nil {
		return nil
	}

	data, err := s.serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize database: %w", err)
	}
	return s.sink.Write(data)
}

func (s *Store) Type() string {
	return "Local SQLite"
}

// Close releases the engine handle. The image is not flushed here; callers
// that need durability must Persist first.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.initialized = false
	return err
}

func (s *Store) serialize() ([]byte, error) {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var data []byte
	err = conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return errors.New("unexpected driver connection type")
		}
		b, err := sc.Serialize("main")
		if err != nil {
			return err
		}
		// Serialize hands back sqlite-owned memory.
		data = append([]byte(nil), b...)
		return nil
	})
	return data, err
}

func restore(db *sql.DB, data []byte) error {
	conn, err := db.Conn(context.Background())
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return errors.New("unexpected driver connection type")
		}
		return sc.Deserialize(data, "main")
	})
}
