package sqlite

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Sink is the durable target the in-memory database image is written to after
// every mutation and read back from once at startup.
type Sink interface {
	// Load returns the last written image, or nil when none exists yet.
	Load() ([]byte, error)
	Write(data []byte) error
}

// FileSink stores the image as a single local file, overwritten whole on
// every write.
type FileSink struct {
	Path string
}

func (s *FileSink) Load() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	return data, nil
}

func (s *FileSink) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write database file: %w", err)
	}
	return nil
}

// PushSink ships the image to the remote service's snapshot endpoint and
// fetches it back from the service's static snapshot path. A 404 on load means
// no snapshot exists yet.
type PushSink struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func (s *PushSink) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

func (s *PushSink) Load() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/db/dashboard.sqlite", nil)
	if err != nil {
		return nil, err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch database snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch database snapshot: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *PushSink) Write(data []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/save-db", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to push database snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to push database snapshot: status %d", resp.StatusCode)
	}
	return nil
}
