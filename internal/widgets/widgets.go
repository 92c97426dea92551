// Package widgets is the repository for dashboard items. Every operation goes
// through the storage router, so the same code serves the embedded engine and
// the remote service.
package widgets

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rverdone/quadro/internal/storage"
)

type Service struct {
	store *storage.Store
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// Input carries the caller-supplied fields for a new widget. ID and both
// timestamps are assigned here, never by the caller.
type Input struct {
	Title          string
	Content        string
	Type           storage.WidgetType
	Tags           []string
	URL            string
	IsProtected    bool
	CredentialType string
	CustomFields   map[string]string
	FolderID       string
}

// All returns every widget, most recently updated first.
func (s *Service) All() ([]storage.Widget, error) {
	resp := s.store.Query(`SELECT * FROM widgets ORDER BY updatedAt DESC`)
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch widgets")
	}
	return formatAll(resp.Results), nil
}

// Get returns the widget with the given id, or nil when it does not exist.
func (s *Service) Get(id string) (*storage.Widget, error) {
	resp := s.store.Query(`SELECT * FROM widgets WHERE id = ?`, id)
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch widget")
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	w := storage.FormatWidget(resp.Results[0])
	return &w, nil
}

// Create assigns a time-based id, stamps both timestamps, inserts and flushes.
// The returned widget is built locally rather than re-read from storage.
func (s *Service) Create(in Input) (*storage.Widget, error) {
	now := time.Now()
	stamp := storage.Timestamp(now)
	id := storage.NewID("widget")

	if in.Tags == nil {
		in.Tags = []string{}
	}
	tags, err := json.Marshal(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	resp := s.store.Execute(`
		INSERT INTO widgets (id, title, content, type, tags, url, isProtected, credentialType, customFields, folder_id, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.Content, string(in.Type), string(tags),
		nullable(in.URL), boolInt(in.IsProtected), nullable(in.CredentialType),
		encodeFields(in.CustomFields), nullable(in.FolderID), stamp, stamp,
	)
	if !resp.Success {
		return nil, respErr(resp, "failed to create widget")
	}
	s.store.Persist()

	return &storage.Widget{
		ID:             id,
		Title:          in.Title,
		Content:        in.Content,
		Type:           in.Type,
		Tags:           in.Tags,
		URL:            in.URL,
		IsProtected:    in.IsProtected,
		CredentialType: in.CredentialType,
		CustomFields:   in.CustomFields,
		FolderID:       in.FolderID,
		CreatedAt:      storage.When(stamp),
		UpdatedAt:      storage.When(stamp),
	}, nil
}

// Update rewrites every mutable column of the widget. The caller's UpdatedAt
// is ignored and overwritten with now; the merged record is returned.
func (s *Service) Update(w storage.Widget) (*storage.Widget, error) {
	stamp := storage.Timestamp(time.Now())

	if w.Tags == nil {
		w.Tags = []string{}
	}
	tags, err := json.Marshal(w.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	resp := s.store.Execute(`
		UPDATE widgets
		SET title = ?, content = ?, type = ?, tags = ?, url = ?, isProtected = ?,
		    credentialType = ?, customFields = ?, updatedAt = ?
		WHERE id = ?`,
		w.Title, w.Content, string(w.Type), string(tags),
		nullable(w.URL), boolInt(w.IsProtected), nullable(w.CredentialType),
		encodeFields(w.CustomFields), stamp, w.ID,
	)
	if !resp.Success {
		return nil, respErr(resp, "failed to update widget")
	}
	s.store.Persist()

	w.UpdatedAt = storage.When(stamp)
	return &w, nil
}

// Delete hard-deletes by id and flushes only when the delete succeeded.
func (s *Service) Delete(id string) bool {
	resp := s.store.Execute(`DELETE FROM widgets WHERE id = ?`, id)
	if resp.Success {
		s.store.Persist()
	}
	return resp.Success
}

// Search matches the term as a substring of title or content. Tags are not
// searched; use ByTag for that.
func (s *Service) Search(term string) ([]storage.Widget, error) {
	pattern := "%" + term + "%"
	resp := s.store.Query(`
		SELECT * FROM widgets
		WHERE title LIKE ? OR content LIKE ?
		ORDER BY updatedAt DESC`,
		pattern, pattern,
	)
	if !resp.Success {
		return nil, respErr(resp, "failed to search widgets")
	}
	return formatAll(resp.Results), nil
}

// ByType returns widgets of one type, most recently updated first.
func (s *Service) ByType(t storage.WidgetType) ([]storage.Widget, error) {
	resp := s.store.Query(`SELECT * FROM widgets WHERE type = ? ORDER BY updatedAt DESC`, string(t))
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch widgets by type")
	}
	return formatAll(resp.Results), nil
}

// ByTag matches the tag as a substring of the serialized tags JSON, not as a
// set-membership test, so a tag that is a substring of another tag name will
// also match. Portable across both backends; kept for compatibility.
func (s *Service) ByTag(tag string) ([]storage.Widget, error) {
	resp := s.store.Query(`SELECT * FROM widgets WHERE tags LIKE ? ORDER BY updatedAt DESC`, "%"+tag+"%")
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch widgets by tag")
	}
	return formatAll(resp.Results), nil
}

// TagCount is one entry of the tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCounts loads every widget and accumulates tag frequencies in memory;
// neither backend offers portable JSON array aggregation in SQL. It counts
// list-membership occurrences: a tag repeated inside one widget's list
// increments its counter once per occurrence. Entries are ordered by
// descending count, ties by tag name.
func (s *Service) TagCounts() ([]TagCount, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, w := range all {
		for _, tag := range w.Tags {
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

func formatAll(records []storage.Record) []storage.Widget {
	out := make([]storage.Widget, 0, len(records))
	for _, rec := range records {
		out = append(out, storage.FormatWidget(rec))
	}
	return out
}

func respErr(resp storage.Response, fallback string) error {
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	return errors.New(fallback)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeFields(fields map[string]string) any {
	if len(fields) == 0 {
		return nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return string(raw)
}
