package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/note"
)

func ptr[T any](v T) *T { return &v }

func sampleResults() []note.Result {
	return []note.Result{
		{
			Source:     note.SourceMarkdown,
			Title:      "Alpha",
			Path:       "Notes/a.md",
			Snippet:    "buy coffee",
			LineNumber: ptr(2),
			ModifiedAt: ptr("2025-01-16T12:00:00"),
			URL:        "noteplan://x-callback-url/openNote?filename=a.md",
		},
		{
			Source:     note.SourceSpaces,
			Title:      "Team",
			Path:       "Team/Team.md",
			Snippet:    "(no content)",
			NoteID:     ptr("abc"),
			ModifiedAt: nil,
			URL:        "noteplan://x-callback-url/openNote?noteTitle=Team",
		},
	}
}

func TestSearch_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, false).Search("coffee", sampleResults()))

	want := "\nFound 2 result(s) for 'coffee':\n\n" +
		"[MARKDOWN] Alpha [2025-01-16]\n" +
		"    Notes/a.md (line 2)\n" +
		"    buy coffee\n\n" +
		"[SPACES] Team\n" +
		"    Team/Team.md\n" +
		"    id: abc\n" +
		"    (no content)\n\n"
	assert.Equal(t, want, buf.String())
}

func TestSearch_TextColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, true).Search("coffee", sampleResults()))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "MARKDOWN")
}

func TestSearch_JSONNeverColored(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, true, true).Search("coffee", sampleResults()))

	assert.NotContains(t, buf.String(), "\x1b")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "coffee", doc["query"])
	assert.EqualValues(t, 2, doc["count"])

	results := doc["results"].([]any)
	first := results[0].(map[string]any)
	assert.Nil(t, first["note_id"])
	assert.EqualValues(t, 2, first["line_number"])
	second := results[1].(map[string]any)
	assert.Nil(t, second["modified_at"])
	assert.Nil(t, second["line_number"])
}

func TestSearch_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, false).Search("tea", nil))
	assert.Equal(t, "No results found for: tea\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, true, false).Search("tea", nil))
	assert.JSONEq(t, `{"query": "tea", "count": 0, "results": []}`, buf.String())
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"query\""))
}

func TestNote_Text(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	require.NoError(t, p.Note(note.Note{
		Found:   true,
		Source:  note.SourceMarkdown,
		Title:   ptr("Plan"),
		Path:    "/notes/plan.md",
		Content: "# Plan\nsteps",
	}))
	assert.Equal(t, "\n=== Plan ===\nSource: markdown\nPath: /notes/plan.md\n\n# Plan\nsteps\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Note(note.NotFound("nope")))
	assert.Equal(t, "Note not found: nope\n", buf.String())
}

func TestListing_Text(t *testing.T) {
	filter, err := datefilter.Parse("2025-01-01", "2025-01-31")
	require.NoError(t, err)

	l := note.NewListing()
	l.Spaces = []note.SpaceEntry{
		{ID: "f", Title: ptr("Projects"), Type: note.TypeFolder, ModifiedAt: ptr("2025-01-15T09:00:00")},
		{ID: "u", Type: note.TypeNote},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, false).Listing(l, filter, true, true))

	want := "\n=== Spaces Notes (after 2025-01-01, before 2025-01-31) (most recent first) ===\n\n" +
		"  📁 2025-01-15  Projects" + strings.Repeat(" ", 32) + "\n" +
		"  📄   " + strings.Repeat(" ", 40) + "\n" +
		"\n=== Markdown Notes (after 2025-01-01, before 2025-01-31) (most recent first) ===\n\n" +
		"  (no markdown notes found)\n"
	assert.Equal(t, want, buf.String())
}

func TestListing_SectionsAndJSON(t *testing.T) {
	l := note.NewListing()
	l.Markdown = []note.FileEntry{{Path: "Notes/a.md", Filename: "a.md", ModifiedAt: "2025-01-14T12:00:00"}}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, false).Listing(l, datefilter.Filter{}, false, true))
	assert.Equal(t, "\n=== Markdown Notes (most recent first) ===\n\n  📄 2025-01-14  Notes/a.md\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, true, false).Listing(note.NewListing(), datefilter.Filter{}, true, true))
	assert.JSONEq(t, `{"spaces": [], "markdown": []}`, buf.String())
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	out, err := Marshal(map[string]string{"snippet": "a < b && c > d"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"snippet\": \"a < b && c > d\"\n}", out)
}
