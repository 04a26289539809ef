// Package note defines the results the query layer produces for both note sources.
package note

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	SourceMarkdown = "markdown"
	SourceSpaces   = "spaces"

	TypeFolder = "folder"
	TypeNote   = "note"

	maxTitleLen = 60
)

// Result is a single search hit.
type Result struct {
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	Path       string  `json:"path"`
	Snippet    string  `json:"snippet"`
	LineNumber *int    `json:"line_number"`
	NoteID     *string `json:"note_id"`
	ModifiedAt *string `json:"modified_at"`
	URL        string  `json:"noteplan_url"`
}

// Note is the outcome of resolving a single identifier.
type Note struct {
	Found      bool
	Identifier string
	Source     string
	ID         string
	Title      *string
	Path       string
	Content    string
	URL        string
}

type foundNote struct {
	Found   bool    `json:"found"`
	Source  string  `json:"source"`
	ID      *string `json:"id,omitempty"`
	Title   *string `json:"title"`
	Path    string  `json:"path"`
	Content string  `json:"content"`
	URL     *string `json:"noteplan_url"`
}

type missingNote struct {
	Found      bool   `json:"found"`
	Identifier string `json:"identifier"`
}

// MarshalJSON emits {"found": false, "identifier": ...} for misses and the
// full note otherwise.
func (n Note) MarshalJSON() ([]byte, error) {
	if !n.Found {
		return json.Marshal(missingNote{Identifier: n.Identifier})
	}

	out := foundNote{
		Found:   true,
		Source:  n.Source,
		Title:   n.Title,
		Path:    n.Path,
		Content: n.Content,
	}
	if n.Source == SourceSpaces {
		out.ID = &n.ID
	}
	if n.URL != "" {
		out.URL = &n.URL
	}
	return json.Marshal(out)
}

// NotFound returns the miss result for identifier.
func NotFound(identifier string) Note {
	return Note{Identifier: identifier}
}

// SpaceEntry is a Spaces row in a listing.
type SpaceEntry struct {
	ID         string  `json:"id"`
	Title      *string `json:"title"`
	Type       string  `json:"type"`
	Path       string  `json:"path"`
	ModifiedAt *string `json:"modified_at"`
	URL        *string `json:"noteplan_url"`
}

// FileEntry is a markdown or text file in a listing.
type FileEntry struct {
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	ModifiedAt string `json:"modified_at"`
	URL        string `json:"noteplan_url"`
}

// Listing holds the two independent lists produced by --list.
type Listing struct {
	Spaces   []SpaceEntry `json:"spaces"`
	Markdown []FileEntry  `json:"markdown"`
}

// NewListing returns a listing whose lists encode as [] rather than null.
func NewListing() Listing {
	return Listing{Spaces: []SpaceEntry{}, Markdown: []FileEntry{}}
}

// TruncateTitle shortens titles longer than 60 runes and marks them with "...".
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleLen {
		return title
	}
	return string([]rune(title)[:maxTitleLen]) + "..."
}

// TitleFromContent returns the first line of content without leading '#'
// and surrounding whitespace, or fallback when that leaves nothing.
func TitleFromContent(content, fallback string) string {
	first, _, _ := strings.Cut(content, "\n")
	title := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(first), "#"))
	if title == "" {
		return fallback
	}
	return title
}

// DatePrefix returns the YYYY-MM-DD part of an ISO timestamp.
func DatePrefix(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
