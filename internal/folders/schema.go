package folders

import (
	"errors"
	"fmt"
	"time"

	"github.com/rverdone/quadro/internal/storage"
)

// requiredColumns is the shape the folders table must have. A table missing
// any of these is considered drifted and is dropped and recreated: data loss
// traded for simplicity, and the policy existing snapshots rely on.
var requiredColumns = []string{"id", "name", "type", "parent_id", "createdAt", "updatedAt"}

const createFoldersTable = `
	CREATE TABLE IF NOT EXISTS folders (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('link', 'note', 'credential', 'tagged', 'all')),
		parent_id TEXT,
		createdAt TEXT NOT NULL,
		updatedAt TEXT NOT NULL
	)`

// defaultFolders are seeded into an empty folders table. Fixed ids make the
// seeding idempotent through INSERT OR REPLACE.
var defaultFolders = []struct {
	ID   string
	Name string
	Type storage.FolderType
}{
	{"folder-links", "Links", storage.FolderLink},
	{"folder-notes", "Notes", storage.FolderNote},
	{"folder-credentials", "Credentials", storage.FolderCredential},
	{"folder-tagged", "Tagged", storage.FolderTagged},
	{"folder-all", "All Items", storage.FolderAll},
}

// ensureSchema checks the folders table against requiredColumns and recreates
// it destructively on drift. A schema change is flushed immediately.
func (s *Service) ensureSchema() error {
	resp := s.store.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'folders'`)
	if !resp.Success {
		return respErr(resp, "failed to inspect schema")
	}

	if len(resp.Results) == 0 {
		if create := s.store.Execute(createFoldersTable); !create.Success {
			return respErr(create, "failed to create folders table")
		}
		s.store.Persist()
		return nil
	}

	existing, err := s.tableColumns("folders")
	if err != nil {
		return err
	}
	for _, col := range requiredColumns {
		if !existing[col] {
			return s.recreateFolders()
		}
	}
	return nil
}

func (s *Service) recreateFolders() error {
	if drop := s.store.Execute(`DROP TABLE folders`); !drop.Success {
		return respErr(drop, "failed to drop folders table")
	}
	if create := s.store.Execute(createFoldersTable); !create.Success {
		return respErr(create, "failed to create folders table")
	}
	s.store.Persist()
	return nil
}

// ensureWidgetFolderColumn adds widgets.folder_id when a pre-folder snapshot
// is missing it. Unlike the folders path this migration is additive.
func (s *Service) ensureWidgetFolderColumn() error {
	existing, err := s.tableColumns("widgets")
	if err != nil {
		return err
	}
	if existing["folder_id"] {
		return nil
	}

	if alter := s.store.Execute(`ALTER TABLE widgets ADD COLUMN folder_id TEXT`); !alter.Success {
		return respErr(alter, "failed to add folder column to widgets")
	}
	s.store.Persist()
	return nil
}

// ensureDefaults seeds the well-known folders into an empty table.
func (s *Service) ensureDefaults() error {
	resp := s.store.Query(`SELECT COUNT(*) AS count FROM folders`)
	if !resp.Success {
		return respErr(resp, "failed to count folders")
	}
	if len(resp.Results) == 0 {
		return errors.New("failed to count folders")
	}
	if storage.Count(resp.Results[0]["count"]) > 0 {
		return nil
	}

	now := storage.Timestamp(time.Now())
	for _, f := range defaultFolders {
		resp := s.store.Execute(`
			INSERT OR REPLACE INTO folders (id, name, type, parent_id, createdAt, updatedAt)
			VALUES (?, ?, ?, NULL, ?, ?)`,
			f.ID, f.Name, string(f.Type), now, now,
		)
		if !resp.Success {
			return fmt.Errorf("failed to seed default folder %s", f.ID)
		}
	}
	s.store.Persist()
	return nil
}

func (s *Service) tableColumns(table string) (map[string]bool, error) {
	resp := s.store.Query(`PRAGMA table_info(` + table + `)`)
	if !resp.Success {
		return nil, respErr(resp, "failed to read table info")
	}
	cols := make(map[string]bool, len(resp.Results))
	for _, rec := range resp.Results {
		cols[storage.Text(rec["name"])] = true
	}
	return cols, nil
}
