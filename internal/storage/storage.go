// Package storage routes queries to one of two interchangeable backends: the
// embedded SQLite engine or the remote SQL service. Repositories only ever see
// the Store and its normalized Response shape, never a concrete driver.
package storage

import (
	"fmt"
	"log"
	"time"
)

// Driver is the primitive contract both backends implement.
type Driver interface {
	// Init prepares the backend. It reports false instead of returning an
	// error so callers can fall back to a degraded mode.
	Init() bool
	Query(query string, params []any) ([]Record, error)
	Execute(query string, params []any) (bool, error)
	// Persist serializes the backend's full state to its durable sink.
	// Backends with their own durability report nil without doing work.
	Persist() error
	Type() string
}

// Response is the uniform result shape returned to repositories. Driver errors
// never escape the Store; they are flattened into Error here.
type Response struct {
	Success bool     `json:"success"`
	Results []Record `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Store holds the backend chosen at startup. The choice is made once in New;
// Toggle exists for tests and development and deliberately skips re-validating
// remote credentials, so flipping to an unconfigured remote makes every call
// fail until it is flipped back.
type Store struct {
	embedded    Driver
	remote      Driver
	useEmbedded bool
}

// New selects a backend. A missing remote driver forces the embedded engine
// regardless of preferEmbedded.
func New(embedded, remote Driver, preferEmbedded bool) *Store {
	useEmbedded := preferEmbedded
	if remote == nil {
		useEmbedded = true
	}
	return &Store{embedded: embedded, remote: remote, useEmbedded: useEmbedded}
}

func (s *Store) active() Driver {
	if s.useEmbedded {
		return s.embedded
	}
	return s.remote
}

// Init prepares the active backend. False means "this backend cannot be used";
// callers log and continue degraded rather than halting.
func (s *Store) Init() bool {
	d := s.active()
	if d == nil {
		return false
	}
	return d.Init()
}

// Query runs a read statement with positional parameters against the active
// backend and normalizes any failure into the Response.
func (s *Store) Query(query string, params ...any) Response {
	d := s.active()
	if d == nil {
		return Response{Error: "storage backend not configured"}
	}
	results, err := d.Query(query, params)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{Success: true, Results: results}
}

// Execute runs a write statement with positional parameters.
func (s *Store) Execute(query string, params ...any) Response {
	d := s.active()
	if d == nil {
		return Response{Error: "storage backend not configured"}
	}
	ok, err := d.Execute(query, params)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{Success: ok}
}

// Persist flushes the active backend to its durable sink. Failures are logged
// and swallowed: the in-memory state stays correct, durability for this one
// mutation is lost.
func (s *Store) Persist() {
	d := s.active()
	if d == nil {
		return
	}
	if err := d.Persist(); err != nil {
		log.Printf("failed to persist database: %v", err)
	}
}

// Type reports the active backend's label for display.
func (s *Store) Type() string {
	d := s.active()
	if d == nil {
		return "none"
	}
	return d.Type()
}

// Toggle flips the cached backend choice without re-checking credentials.
func (s *Store) Toggle() {
	s.useEmbedded = !s.useEmbedded
}

// UsingEmbedded reports whether the embedded engine is the active backend.
func (s *Store) UsingEmbedded() bool {
	return s.useEmbedded
}

// TimeLayout is the canonical timestamp encoding. Fixed-width UTC so that a
// textual ORDER BY matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp encodes t in the canonical layout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NewID returns a time-based identifier like "widget-1724840000123456789".
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
