package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWidgetTagsFromJSONString(t *testing.T) {
	w := FormatWidget(Record{
		"id":    "widget-1",
		"title": "Links",
		"type":  "link",
		"tags":  `["work","resources"]`,
	})
	assert.Equal(t, []string{"work", "resources"}, w.Tags)
}

func TestFormatWidgetTagsAlreadyDecoded(t *testing.T) {
	// Rows that crossed the remote service's JSON boundary may hand the
	// list over pre-decoded.
	w := FormatWidget(Record{
		"id":   "widget-1",
		"tags": []any{"work", "resources"},
	})
	assert.Equal(t, []string{"work", "resources"}, w.Tags)
}

func TestFormatWidgetTagsFallback(t *testing.T) {
	for _, tags := range []any{nil, "not json", 42} {
		w := FormatWidget(Record{"id": "widget-1", "tags": tags})
		assert.Equal(t, []string{}, w.Tags)
	}
}

func TestFormatWidgetProtectedCoercion(t *testing.T) {
	cases := map[any]bool{
		int64(1):   true,
		int64(0):   false,
		float64(1): true,
		true:       true,
		"1":        true,
		"0":        false,
		nil:        false,
	}
	for raw, want := range cases {
		w := FormatWidget(Record{"id": "w", "isProtected": raw})
		assert.Equal(t, want, w.IsProtected, "isProtected=%v", raw)
	}
}

func TestFormatWidgetCustomFields(t *testing.T) {
	w := FormatWidget(Record{
		"id":           "widget-3",
		"customFields": `{"username":"admin","port":"22"}`,
	})
	require.NotNil(t, w.CustomFields)
	assert.Equal(t, "admin", w.CustomFields["username"])
	assert.Equal(t, "22", w.CustomFields["port"])

	w = FormatWidget(Record{"id": "widget-3"})
	assert.Nil(t, w.CustomFields)
}

func TestFormatWidgetTimestamps(t *testing.T) {
	stamp := Timestamp(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	w := FormatWidget(Record{"id": "w", "createdAt": stamp, "updatedAt": stamp})
	assert.Equal(t, 2026, w.CreatedAt.Year())
	assert.Equal(t, time.March, w.CreatedAt.Month())

	// Absent timestamps fall back to now instead of failing.
	before := time.Now()
	w = FormatWidget(Record{"id": "w"})
	assert.False(t, w.CreatedAt.Before(before))
}

func TestTimestampOrdering(t *testing.T) {
	// Textual ORDER BY relies on the layout being fixed-width.
	early := Timestamp(time.Date(2026, 1, 2, 9, 30, 0, 120_000_000, time.UTC))
	late := Timestamp(time.Date(2026, 1, 2, 9, 30, 1, 0, time.UTC))
	assert.Less(t, early, late)
	assert.Len(t, early, len(late))
}

func TestFormatFolderLevel(t *testing.T) {
	f := FormatFolder(Record{
		"id":        "folder-notes",
		"name":      "Notes",
		"type":      "note",
		"parent_id": nil,
		"level":     int64(2),
	})
	assert.Equal(t, 2, f.Level)
	assert.Equal(t, "", f.ParentID)
	assert.Equal(t, FolderNote, f.Type)
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID("widget")
	assert.Regexp(t, `^widget-\d+$`, id)
}
