package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rverdone/quadro/internal/storage"
)

// Schema bootstraps every table the dashboard persists. The remote service
// runs the same statements against its own database so both backends answer
// identical queries.
const Schema = `
CREATE TABLE IF NOT EXISTS widgets (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT,
	type TEXT NOT NULL CHECK (type IN ('link', 'note', 'credential', 'tagged')),
	tags TEXT,
	url TEXT,
	isProtected INTEGER DEFAULT 0,
	credentialType TEXT,
	customFields TEXT,
	folder_id TEXT,
	createdAt TEXT NOT NULL,
	updatedAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS folders (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('link', 'note', 'credential', 'tagged', 'all')),
	parent_id TEXT,
	createdAt TEXT NOT NULL,
	updatedAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vault_keys (
	id TEXT PRIMARY KEY,
	key_hash TEXT NOT NULL,
	hint TEXT,
	createdAt TEXT NOT NULL,
	lastUsed TEXT
);

CREATE INDEX IF NOT EXISTS idx_widgets_type ON widgets(type);
CREATE INDEX IF NOT EXISTS idx_widgets_folder ON widgets(folder_id);
CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id);
`

// seedSamples inserts the starter widgets and vault key a fresh database
// ships with. Only called when the widgets table is empty.
func seedSamples(db *sql.DB) error {
	now := storage.Timestamp(time.Now())
	weekAgo := storage.Timestamp(time.Now().AddDate(0, 0, -7))
	monthAgo := storage.Timestamp(time.Now().AddDate(0, -1, 0))

	serverFields, err := json.Marshal(map[string]string{
		"username": "admin",
		"server":   "dev.example.com",
		"port":     "22",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sample fields: %w", err)
	}

	samples := [][]any{
		{
			"widget-1", "Important Links",
			"Collection of frequently used websites and resources",
			"link", `["work","resources"]`, "https://example.com",
			0, nil, nil, weekAgo, now,
		},
		{
			"widget-2", "Project Notes",
			"Notes for the current dashboard project including requirements and deadlines",
			"note", `["project","work"]`, nil,
			0, nil, nil, monthAgo, weekAgo,
		},
		{
			"widget-3", "Server Credentials",
			"Login information for the development server",
			"credential", `["server","security"]`, nil,
			1, "server", string(serverFields), monthAgo, weekAgo,
		},
		{
			"widget-4", "Personal Tasks",
			"List of personal tasks and reminders",
			"tagged", `["personal","tasks"]`, nil,
			0, nil, nil, weekAgo, now,
		},
	}

	stmt, err := db.Prepare(`
		INSERT INTO widgets (id, title, content, type, tags, url, isProtected, credentialType, customFields, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range samples {
		if _, err := stmt.Exec(row...); err != nil {
			return fmt.Errorf("failed to insert sample widget: %w", err)
		}
	}

	_, err = db.Exec(`
		INSERT INTO vault_keys (id, key_hash, hint, createdAt, lastUsed)
		VALUES ('default-key', 'hashed_master_password_would_go_here', 'Your favorite color', ?, ?)
	`, monthAgo, now)
	if err != nil {
		return fmt.Errorf("failed to insert sample vault key: %w", err)
	}
	return nil
}
