package widgets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rverdone/quadro/internal/storage"
	"github.com/rverdone/quadro/internal/storage/sqlite"
)

// newTestService wires a service onto an embedded store with the sample rows
// cleared out so counts start from zero.
func newTestService(t *testing.T) *Service {
	t.Helper()
	store := storage.New(sqlite.New(nil), nil, true)
	require.True(t, store.Init())
	require.True(t, store.Execute(`DELETE FROM widgets`).Success)
	return NewService(store)
}

func TestCreateThenGet(t *testing.T) {
	s := newTestService(t)

	created, err := s.Create(Input{
		Title:   "Project Notes",
		Content: "requirements and deadlines",
		Type:    storage.WidgetNote,
		Tags:    []string{"project", "work"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Content, got.Content)
	assert.Equal(t, created.Type, got.Type)
	assert.Equal(t, []string{"project", "work"}, got.Tags)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, created.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := newTestService(t)
	got, err := s.Get("widget-does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateStoresAllColumns(t *testing.T) {
	s := newTestService(t)

	created, err := s.Create(Input{
		Title:          "Server Credentials",
		Content:        "login info",
		Type:           storage.WidgetCredential,
		Tags:           []string{"server"},
		IsProtected:    true,
		CredentialType: "server",
		CustomFields:   map[string]string{"username": "admin", "port": "22"},
	})
	require.NoError(t, err)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsProtected)
	assert.Equal(t, "server", got.CredentialType)
	assert.Equal(t, "admin", got.CustomFields["username"])
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	s := newTestService(t)

	created, err := s.Create(Input{Title: "before", Type: storage.WidgetNote})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	w := *created
	w.Title = "after"
	// A caller-supplied UpdatedAt is ignored and overwritten.
	w.UpdatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	updated, err := s.Update(w)
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestDelete(t *testing.T) {
	s := newTestService(t)

	created, err := s.Create(Input{Title: "gone soon", Type: storage.WidgetNote})
	require.NoError(t, err)

	assert.True(t, s.Delete(created.ID))

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAllOrderedByRecency(t *testing.T) {
	s := newTestService(t)

	first, err := s.Create(Input{Title: "first", Type: storage.WidgetNote})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := s.Create(Input{Title: "second", Type: storage.WidgetNote})
	require.NoError(t, err)

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	// Updating the older widget moves it to the front.
	time.Sleep(2 * time.Millisecond)
	_, err = s.Update(*first)
	require.NoError(t, err)

	all, err = s.All()
	require.NoError(t, err)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestSearchMatchesTitleAndContentOnly(t *testing.T) {
	s := newTestService(t)

	created, err := s.Create(Input{
		Title:   "t",
		Content: "c",
		Type:    storage.WidgetNote,
		Tags:    []string{"x", "y"},
	})
	require.NoError(t, err)

	// Tags are invisible to search...
	results, err := s.Search("x")
	require.NoError(t, err)
	assert.Empty(t, results)

	// ...but visible to ByTag.
	results, err = s.ByTag("x")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].ID)

	results, err = s.Search("c")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].ID)
}

func TestByType(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create(Input{Title: "a link", Type: storage.WidgetLink, URL: "https://example.com"})
	require.NoError(t, err)
	_, err = s.Create(Input{Title: "a note", Type: storage.WidgetNote})
	require.NoError(t, err)

	links, err := s.ByType(storage.WidgetLink)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "a link", links[0].Title)
}

func TestByTagMatchesSerializedSubstring(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create(Input{Title: "w1", Type: storage.WidgetNote, Tags: []string{"work"}})
	require.NoError(t, err)
	_, err = s.Create(Input{Title: "w2", Type: storage.WidgetNote, Tags: []string{"workshop"}})
	require.NoError(t, err)

	// Substring matching over the serialized JSON: "work" also hits
	// "workshop". Known limitation, kept for backend portability.
	results, err := s.ByTag("work")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = s.ByTag("workshop")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestTagCounts(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create(Input{Title: "w1", Type: storage.WidgetNote, Tags: []string{"a", "b"}})
	require.NoError(t, err)
	_, err = s.Create(Input{Title: "w2", Type: storage.WidgetNote, Tags: []string{"a"}})
	require.NoError(t, err)
	// A tag repeated within one widget's own list counts per occurrence.
	_, err = s.Create(Input{Title: "w3", Type: storage.WidgetNote, Tags: []string{"b", "b"}})
	require.NoError(t, err)

	counts, err := s.TagCounts()
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, TagCount{Tag: "b", Count: 3}, counts[0])
	assert.Equal(t, TagCount{Tag: "a", Count: 2}, counts[1])
}

func TestTagCountsEmpty(t *testing.T) {
	s := newTestService(t)
	counts, err := s.TagCounts()
	require.NoError(t, err)
	assert.Empty(t, counts)
}
