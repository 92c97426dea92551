// Package folders is the repository for the folder tree. It also owns the
// schema manager: folder table drift is repaired destructively, the widgets
// folder column additively, and the default folders are seeded idempotently.
package folders

import (
	"errors"
	"log"
	"time"

	"github.com/rverdone/quadro/internal/storage"
)

type Service struct {
	store *storage.Store
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store}
}

// Init walks the initialization chain: schema checked (recreating the folders
// table on drift), widgets.folder_id ensured, defaults seeded. Any failure is
// logged and reported as false; callers continue degraded rather than halting.
func (s *Service) Init() bool {
	if err := s.ensureSchema(); err != nil {
		log.Printf("failed to initialize folders: %v", err)
		return false
	}
	if err := s.ensureWidgetFolderColumn(); err != nil {
		log.Printf("failed to add folder column: %v", err)
		return false
	}
	if err := s.ensureDefaults(); err != nil {
		log.Printf("failed to seed default folders: %v", err)
		return false
	}
	return true
}

// All returns every folder ordered by name.
func (s *Service) All() ([]storage.Folder, error) {
	resp := s.store.Query(`SELECT * FROM folders ORDER BY name ASC`)
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch folders")
	}
	return formatAll(resp.Results), nil
}

// ByType returns folders of one type, most recently updated first.
func (s *Service) ByType(t storage.FolderType) ([]storage.Folder, error) {
	resp := s.store.Query(`SELECT * FROM folders WHERE type = ? ORDER BY updatedAt DESC`, string(t))
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch folders by type")
	}
	return formatAll(resp.Results), nil
}

// Get returns the folder with the given id, or nil when it does not exist.
func (s *Service) Get(id string) (*storage.Folder, error) {
	resp := s.store.Query(`SELECT * FROM folders WHERE id = ?`, id)
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch folder")
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	f := storage.FormatFolder(resp.Results[0])
	return &f, nil
}

// Create inserts a new folder under parentID; empty parentID means root.
func (s *Service) Create(name string, t storage.FolderType, parentID string) (*storage.Folder, error) {
	stamp := storage.Timestamp(time.Now())
	id := storage.NewID("folder")

	resp := s.store.Execute(`
		INSERT INTO folders (id, name, type, parent_id, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, string(t), nullable(parentID), stamp, stamp,
	)
	if !resp.Success {
		return nil, respErr(resp, "failed to create folder")
	}
	s.store.Persist()

	return &storage.Folder{
		ID:        id,
		Name:      name,
		Type:      t,
		ParentID:  parentID,
		CreatedAt: storage.When(stamp),
		UpdatedAt: storage.When(stamp),
	}, nil
}

// Update rewrites name, type and parent linkage. UpdatedAt is stamped here.
func (s *Service) Update(f storage.Folder) (*storage.Folder, error) {
	stamp := storage.Timestamp(time.Now())

	resp := s.store.Execute(`
		UPDATE folders SET name = ?, type = ?, parent_id = ?, updatedAt = ? WHERE id = ?`,
		f.Name, string(f.Type), nullable(f.ParentID), stamp, f.ID,
	)
	if !resp.Success {
		return nil, respErr(resp, "failed to update folder")
	}
	s.store.Persist()

	f.UpdatedAt = storage.When(stamp)
	return &f, nil
}

// Delete hard-deletes the folder. Widgets and subfolders that referenced it
// keep their now-dangling references; nothing is reassigned or cascaded.
func (s *Service) Delete(id string) bool {
	resp := s.store.Execute(`DELETE FROM folders WHERE id = ?`, id)
	if resp.Success {
		s.store.Persist()
	}
	return resp.Success
}

// Hierarchy returns the whole tree flattened in level order: roots first,
// then their children, each row annotated with its depth. Within one level
// folders are ordered by recency, and a parent always precedes its
// descendants. A cycle in parent links would never terminate here; nothing in
// the data layer prevents one.
func (s *Service) Hierarchy() ([]storage.Folder, error) {
	resp := s.store.Query(`
		WITH RECURSIVE folder_tree(id, name, type, parent_id, createdAt, updatedAt, level) AS (
			SELECT id, name, type, parent_id, createdAt, updatedAt, 0
			FROM folders
			WHERE parent_id IS NULL
			UNION ALL
			SELECT f.id, f.name, f.type, f.parent_id, f.createdAt, f.updatedAt, ft.level + 1
			FROM folders f
			JOIN folder_tree ft ON f.parent_id = ft.id
		)
		SELECT * FROM folder_tree ORDER BY level ASC, updatedAt DESC`)
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch folder hierarchy")
	}
	return formatAll(resp.Results), nil
}

// WidgetsIn returns the widgets filed under folderID, most recent first.
// Dangling folder ids still resolve: widgets keep their reference after the
// folder is deleted.
func (s *Service) WidgetsIn(folderID string) ([]storage.Widget, error) {
	resp := s.store.Query(`SELECT * FROM widgets WHERE folder_id = ? ORDER BY updatedAt DESC`, folderID)
	if !resp.Success {
		return nil, respErr(resp, "failed to fetch widgets by folder")
	}
	out := make([]storage.Widget, 0, len(resp.Results))
	for _, rec := range resp.Results {
		out = append(out, storage.FormatWidget(rec))
	}
	return out, nil
}

// MoveWidget refiles a widget; empty folderID moves it to the root.
func (s *Service) MoveWidget(widgetID, folderID string) bool {
	stamp := storage.Timestamp(time.Now())
	resp := s.store.Execute(`UPDATE widgets SET folder_id = ?, updatedAt = ? WHERE id = ?`,
		nullable(folderID), stamp, widgetID)
	if resp.Success {
		s.store.Persist()
	}
	return resp.Success
}

// Move reparents a folder; empty parentID makes it a root folder.
func (s *Service) Move(folderID, parentID string) bool {
	stamp := storage.Timestamp(time.Now())
	resp := s.store.Execute(`UPDATE folders SET parent_id = ?, updatedAt = ? WHERE id = ?`,
		nullable(parentID), stamp, folderID)
	if resp.Success {
		s.store.Persist()
	}
	return resp.Success
}

func formatAll(records []storage.Record) []storage.Folder {
	out := make([]storage.Folder, 0, len(records))
	for _, rec := range records {
		out = append(out, storage.FormatFolder(rec))
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
