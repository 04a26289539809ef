package search

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgomes/npq/internal/config"
	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/db"
	"github.com/mgomes/npq/internal/db/dbtest"
	"github.com/mgomes/npq/internal/markdown"
	"github.com/mgomes/npq/internal/note"
	"github.com/mgomes/npq/internal/spaces"
)

type fixture struct {
	notes    string
	calendar string
	dbPath   string
}

func (f fixture) searcher() *Searcher {
	roots := []config.Root{
		{Label: config.LabelNotes, Dir: f.notes},
		{Label: config.LabelCalendar, Dir: f.calendar},
	}
	return New(markdown.New(roots), spaces.New(f.dbPath))
}

func newFixture(t *testing.T, rows ...dbtest.Row) fixture {
	t.Helper()

	base := t.TempDir()
	f := fixture{
		notes:    filepath.Join(base, "Notes"),
		calendar: filepath.Join(base, "Calendar"),
		dbPath:   filepath.Join(base, "missing.db"),
	}
	require.NoError(t, os.MkdirAll(f.notes, 0755))
	require.NoError(t, os.MkdirAll(f.calendar, 0755))
	if len(rows) > 0 {
		f.dbPath = dbtest.Create(t, rows...)
	}
	return f
}

func writeFile(t *testing.T, dir, name, content string, day int) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	mtime := time.Date(2025, 1, day, 12, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestSearch_RecencyOrdering(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.notes, "a.md", "coffee", 14)
	writeFile(t, f.notes, "b.md", "coffee", 16)

	results := f.searcher().Search(context.Background(), "coffee", Options{})

	require.Len(t, results, 2)
	assert.Equal(t, "Notes/b.md", results[0].Path)
	assert.Equal(t, "Notes/a.md", results[1].Path)
}

func TestSearch_MergesSourcesNilLast(t *testing.T) {
	f := newFixture(t,
		dbtest.Row{ID: "s-new", Title: dbtest.Str("S new"), Content: dbtest.Str("coffee"), ModifiedAt: dbtest.Str("2025-01-17T08:00:00")},
		dbtest.Row{ID: "s-none", Title: dbtest.Str("S none"), Content: dbtest.Str("coffee")},
		dbtest.Row{ID: "s-old", Title: dbtest.Str("S old"), Content: dbtest.Str("coffee"), ModifiedAt: dbtest.Str("2025-01-13T08:00:00")},
	)
	writeFile(t, f.notes, "a.md", "coffee", 14)
	writeFile(t, f.calendar, "20250116.md", "coffee", 16)

	results := f.searcher().Search(context.Background(), "coffee", Options{})

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"s-new", "Calendar/20250116.md", "Notes/a.md", "s-old", "s-none"}, paths)
}

func TestSearch_SourceSelection(t *testing.T) {
	f := newFixture(t, dbtest.Row{ID: "s", Content: dbtest.Str("coffee")})
	writeFile(t, f.notes, "a.md", "coffee", 14)
	s := f.searcher()

	md := s.Search(context.Background(), "coffee", Options{MarkdownOnly: true})
	require.Len(t, md, 1)
	assert.Equal(t, note.SourceMarkdown, md[0].Source)

	sp := s.Search(context.Background(), "coffee", Options{SpacesOnly: true})
	require.Len(t, sp, 1)
	assert.Equal(t, note.SourceSpaces, sp[0].Source)
}

func TestSearch_DateRange(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.notes, "d14.md", "coffee", 14)
	writeFile(t, f.notes, "d15.md", "coffee", 15)
	writeFile(t, f.notes, "d16.md", "coffee", 16)

	filter, err := datefilter.Parse("2025-01-15", "2025-01-15")
	require.NoError(t, err)

	results := f.searcher().Search(context.Background(), "coffee", Options{Filter: filter})
	require.Len(t, results, 1)
	assert.Equal(t, "Notes/d15.md", results[0].Path)
}

func TestSearch_SpecialFolders(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.notes, "@Templates/t.md", "coffee", 14)

	assert.Empty(t, f.searcher().Search(context.Background(), "coffee", Options{}))
	assert.Len(t, f.searcher().Search(context.Background(), "coffee", Options{IncludeSpecial: true}), 1)
}

// Matching ignores case even when case-sensitive search is requested.
func TestSearch_CaseSensitiveIsIgnored(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.notes, "a.md", "Coffee", 14)

	insensitive := f.searcher().Search(context.Background(), "coffee", Options{})
	sensitive := f.searcher().Search(context.Background(), "coffee", Options{CaseSensitive: true})

	assert.Len(t, sensitive, 1)
	assert.Equal(t, insensitive, sensitive)
}

func TestSearch_Idempotent(t *testing.T) {
	f := newFixture(t, dbtest.Row{ID: "s", Content: dbtest.Str("coffee"), ModifiedAt: dbtest.Str("2025-01-15T00:00:00")})
	writeFile(t, f.notes, "a.md", "coffee", 14)
	writeFile(t, f.notes, "b.md", "coffee", 16)
	s := f.searcher()

	first, err := json.Marshal(s.Search(context.Background(), "coffee", Options{}))
	require.NoError(t, err)
	second, err := json.Marshal(s.Search(context.Background(), "coffee", Options{}))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestGet_SpacesByUUID(t *testing.T) {
	id := uuid.NewString()
	f := newFixture(t, dbtest.Row{ID: id, Title: dbtest.Str("Roadmap"), Content: dbtest.Str("Q1 goals")})
	s := f.searcher()

	n := s.Get(context.Background(), id)
	require.True(t, n.Found)
	assert.Equal(t, note.SourceSpaces, n.Source)
	assert.Equal(t, "Q1 goals", n.Content)

	missing := uuid.NewString()
	n = s.Get(context.Background(), missing)
	assert.False(t, n.Found)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"found": false, "identifier": "`+missing+`"}`, string(data))
}

func TestGet_SpacesTitleBeatsMarkdown(t *testing.T) {
	f := newFixture(t, dbtest.Row{ID: "1", Title: dbtest.Str("plan")})
	writeFile(t, f.notes, "plan.md", "markdown plan", 14)

	n := f.searcher().Get(context.Background(), "plan")
	require.True(t, n.Found)
	assert.Equal(t, note.SourceSpaces, n.Source)
}

func TestGet_MarkdownOrder(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.notes, "Calendar/x.md", "path under notes", 14)
	writeFile(t, f.calendar, "x.md", "labelled", 14)
	writeFile(t, f.notes, "deep/standup.txt", "txt", 14)
	writeFile(t, f.calendar, "deep/standup.md", "md", 14)
	s := f.searcher()

	n := s.Get(context.Background(), "Calendar/x.md")
	require.True(t, n.Found)
	assert.Equal(t, "labelled", n.Content)
	assert.Equal(t, filepath.Join(f.calendar, "x.md"), n.Path)

	n = s.Get(context.Background(), "deep/standup.txt")
	require.True(t, n.Found)
	assert.Equal(t, "txt", n.Content)

	n = s.Get(context.Background(), "Standup")
	require.True(t, n.Found)
	assert.Equal(t, "md", n.Content, ".md files are preferred over .txt files")
}

func TestList_SpacesFolder(t *testing.T) {
	f := newFixture(t, dbtest.Row{
		ID:         "folder-1",
		Title:      dbtest.Str("Projects"),
		NoteType:   dbtest.Int(db.NoteTypeFolder),
		ModifiedAt: dbtest.Str("2025-01-15T09:00:00"),
	})

	listing, err := f.searcher().List(context.Background(), Options{})
	require.NoError(t, err)

	data, err := json.Marshal(listing)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"spaces": [{
			"id": "folder-1",
			"title": "Projects",
			"type": "folder",
			"path": "",
			"modified_at": "2025-01-15T09:00:00",
			"noteplan_url": null
		}],
		"markdown": []
	}`, string(data))
}

func TestList_SourceSelectionAndErrors(t *testing.T) {
	f := newFixture(t)
	f.dbPath = dbtest.CreateBroken(t)
	writeFile(t, f.notes, "a.md", "x", 14)
	s := f.searcher()

	listing, err := s.List(context.Background(), Options{})
	assert.Error(t, err)
	assert.Empty(t, listing.Spaces)
	assert.Len(t, listing.Markdown, 1)

	listing, err = s.List(context.Background(), Options{MarkdownOnly: true})
	assert.NoError(t, err)
	assert.Len(t, listing.Markdown, 1)

	listing, err = s.List(context.Background(), Options{SpacesOnly: true})
	assert.Error(t, err)
	assert.NotNil(t, listing.Markdown)
	assert.Empty(t, listing.Markdown)
}
