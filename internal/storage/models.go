package storage

import "time"

type WidgetType string

const (
	WidgetLink       WidgetType = "link"
	WidgetNote       WidgetType = "note"
	WidgetCredential WidgetType = "credential"
	WidgetTagged     WidgetType = "tagged"
)

// WidgetTypes lists every widget type, in the order default folders are seeded.
var WidgetTypes = []WidgetType{WidgetLink, WidgetNote, WidgetCredential, WidgetTagged}

type FolderType string

const (
	FolderLink       FolderType = "link"
	FolderNote       FolderType = "note"
	FolderCredential FolderType = "credential"
	FolderTagged     FolderType = "tagged"
	FolderAll        FolderType = "all"
)

// Widget is a stored dashboard item. Which of URL/Content carries the payload
// depends on Type; the storage layer persists every column regardless and
// leaves validation to the caller.
type Widget struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Content        string            `json:"content"`
	Type           WidgetType        `json:"type"`
	Tags           []string          `json:"tags"`
	URL            string            `json:"url,omitempty"`
	IsProtected    bool              `json:"isProtected"`
	CredentialType string            `json:"credentialType,omitempty"`
	CustomFields   map[string]string `json:"customFields,omitempty"`
	FolderID       string            `json:"folder_id,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Folder is a typed container. Folders form a tree through ParentID; an empty
// ParentID marks a root folder. Nothing below the UI prevents reference cycles.
type Folder struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      FolderType `json:"type"`
	ParentID  string     `json:"parent_id,omitempty"`
	Level     int        `json:"level,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
