// Package render writes search results, notes and listings as text or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/note"
)

const titleColumn = 40

// SearchDocument is the JSON form of a search.
type SearchDocument struct {
	Query   string        `json:"query"`
	Count   int           `json:"count"`
	Results []note.Result `json:"results"`
}

func NewSearchDocument(query string, results []note.Result) SearchDocument {
	if results == nil {
		results = []note.Result{}
	}
	return SearchDocument{Query: query, Count: len(results), Results: results}
}

type Printer struct {
	w      io.Writer
	json   bool
	color  bool
	styles styles
}

// NewPrinter returns a Printer writing JSON when asJSON is set and text
// otherwise. Text is styled only when color is set.
func NewPrinter(w io.Writer, asJSON, color bool) *Printer {
	return &Printer{
		w:      w,
		json:   asJSON,
		color:  color && !asJSON,
		styles: newStyles(w),
	}
}

func (p *Printer) Search(query string, results []note.Result) error {
	if p.json {
		return WriteJSON(p.w, NewSearchDocument(query, results))
	}

	if len(results) == 0 {
		_, err := fmt.Fprintf(p.w, "No results found for: %s\n", query)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nFound %d result(s) for '%s':\n\n", len(results), query)
	for _, r := range results {
		p.writeResult(&b, r)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) writeResult(b *strings.Builder, r note.Result) {
	tag := p.styles.markdown
	if r.Source == note.SourceSpaces {
		tag = p.styles.spaces
	}

	b.WriteString(p.paint(tag, "["+strings.ToUpper(r.Source)+"]"))
	b.WriteString(" " + p.paint(p.styles.title, r.Title))
	if r.ModifiedAt != nil && *r.ModifiedAt != "" {
		b.WriteString(" " + p.paint(p.styles.dim, "["+note.DatePrefix(*r.ModifiedAt)+"]"))
	}
	b.WriteString("\n    " + r.Path)
	if r.LineNumber != nil {
		fmt.Fprintf(b, " (line %d)", *r.LineNumber)
	}
	if r.NoteID != nil && *r.NoteID != "" {
		b.WriteString("\n    " + p.paint(p.styles.dim, "id: "+*r.NoteID))
	}
	b.WriteString("\n    " + r.Snippet + "\n\n")
}

func (p *Printer) Note(n note.Note) error {
	if p.json {
		return WriteJSON(p.w, n)
	}

	if !n.Found {
		_, err := fmt.Fprintf(p.w, "Note not found: %s\n", n.Identifier)
		return err
	}

	_, err := fmt.Fprintf(p.w, "\n=== %s ===\nSource: %s\nPath: %s\n\n%s\n", orEmpty(n.Title), n.Source, n.Path, n.Content)
	return err
}

// Listing writes the selected sections of l. The header of each section
// names the date range from filter.
func (p *Printer) Listing(l note.Listing, filter datefilter.Filter, showSpaces, showMarkdown bool) error {
	if p.json {
		return WriteJSON(p.w, l)
	}

	var b strings.Builder
	rangeInfo := filter.Describe()

	if showSpaces {
		fmt.Fprintf(&b, "\n=== Spaces Notes%s (most recent first) ===\n\n", rangeInfo)
		if len(l.Spaces) == 0 {
			b.WriteString("  (no spaces notes found)\n")
		}
		for _, e := range l.Spaces {
			icon := "📄"
			if e.Type == note.TypeFolder {
				icon = "📁"
			}
			date := ""
			if e.ModifiedAt != nil {
				date = note.DatePrefix(*e.ModifiedAt)
			}
			fmt.Fprintf(&b, "  %s %s  %s\n", icon, date, runewidth.FillRight(orEmpty(e.Title), titleColumn))
		}
	}

	if showMarkdown {
		fmt.Fprintf(&b, "\n=== Markdown Notes%s (most recent first) ===\n\n", rangeInfo)
		if len(l.Markdown) == 0 {
			b.WriteString("  (no markdown notes found)\n")
		}
		for _, e := range l.Markdown {
			fmt.Fprintf(&b, "  📄 %s  %s\n", note.DatePrefix(e.ModifiedAt), e.Path)
		}
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Marshal encodes v the way WriteJSON does, without the trailing newline.
func Marshal(v any) (string, error) {
	var b strings.Builder
	if err := WriteJSON(&b, v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// WriteJSON writes v indented by two spaces, leaving <, > and & unescaped.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
