// Package spaces turns rows of the Spaces database into search results,
// listings and resolved notes.
package spaces

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/db"
	"github.com/mgomes/npq/internal/deeplink"
	"github.com/mgomes/npq/internal/note"
	"github.com/mgomes/npq/internal/snippet"
)

const (
	cloudPrefix = "%%NotePlanCloud%%/"
	noContent   = "(no content)"
)

type Source struct {
	dbPath string
}

func New(dbPath string) *Source {
	return &Source{dbPath: dbPath}
}

// open returns nil without error when the database does not exist.
func (s *Source) open() (*db.DB, error) {
	database, err := db.Open(s.dbPath)
	if errors.Is(err, db.ErrNotExist) {
		return nil, nil
	}
	return database, err
}

// Search yields plain notes whose content or title contains term and whose
// modification time passes filter. Database errors are logged and end the
// sequence.
func (s *Source) Search(ctx context.Context, term string, filter datefilter.Filter) iter.Seq[note.Result] {
	return func(yield func(note.Result) bool) {
		database, err := s.open()
		if err != nil {
			log.Error().Err(err).Str("db", s.dbPath).Msg("Database error")
			return
		}
		if database == nil {
			return
		}
		defer database.Close() //nolint:errcheck

		for row, err := range database.SearchNotes(ctx, term) {
			if err != nil {
				log.Error().Err(err).Str("db", s.dbPath).Msg("Database error")
				return
			}

			modified := nullable(row.ModifiedAt.String, row.ModifiedAt.Valid)
			if !filter.Match(modified) {
				continue
			}

			if !yield(toResult(row, term, modified)) {
				return
			}
		}
	}
}

func toResult(row db.Note, term string, modified *string) note.Result {
	text, line := noContent, (*int)(nil)
	if row.Content.String != "" {
		text, line = snippet.Extract(row.Content.String, term, snippet.DefaultWidth)
	}

	title := firstNonEmpty(row.Title.String, row.Filename.String, row.ID)
	id := row.ID

	return note.Result{
		Source:     note.SourceSpaces,
		Title:      note.TruncateTitle(title),
		Path:       displayPath(row),
		Snippet:    text,
		LineNumber: line,
		NoteID:     &id,
		ModifiedAt: modified,
		URL:        deeplink.Build(title, "", ""),
	}
}

// List returns every row, folders included, that passes filter, in the
// database's most-recent-first order.
func (s *Source) List(ctx context.Context, filter datefilter.Filter) ([]note.SpaceEntry, error) {
	database, err := s.open()
	if err != nil || database == nil {
		return nil, err
	}
	defer database.Close() //nolint:errcheck

	var entries []note.SpaceEntry
	for row, err := range database.AllNotes(ctx) {
		if err != nil {
			return nil, err
		}

		modified := nullable(row.ModifiedAt.String, row.ModifiedAt.Valid)
		if !filter.Match(modified) {
			continue
		}

		entry := note.SpaceEntry{
			ID:         row.ID,
			Title:      nullable(row.Title.String, row.Title.Valid),
			Type:       note.TypeNote,
			Path:       strings.ReplaceAll(row.NotePath.String, cloudPrefix, ""),
			ModifiedAt: modified,
		}
		if row.NoteType.Valid && row.NoteType.Int64 == db.NoteTypeFolder {
			entry.Type = note.TypeFolder
		}
		if entry.Type != note.TypeFolder && row.Title.String != "" {
			url := deeplink.Build(row.Title.String, "", "")
			entry.URL = &url
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Get resolves identifier by exact id, then by case-insensitive title.
// Database errors count as a miss.
func (s *Source) Get(ctx context.Context, identifier string) (note.Note, bool) {
	database, err := s.open()
	if err != nil {
		log.Debug().Err(err).Msg("spaces lookup skipped")
		return note.Note{}, false
	}
	if database == nil {
		return note.Note{}, false
	}
	defer database.Close() //nolint:errcheck

	row, err := database.NoteByID(ctx, identifier)
	if err == nil && row == nil {
		row, err = database.NoteByTitle(ctx, identifier)
	}
	if err != nil {
		log.Debug().Err(err).Str("identifier", identifier).Msg("spaces lookup failed")
		return note.Note{}, false
	}
	if row == nil {
		return note.Note{}, false
	}

	n := note.Note{
		Found:   true,
		Source:  note.SourceSpaces,
		ID:      row.ID,
		Title:   nullable(row.Title.String, row.Title.Valid),
		Path:    strings.ReplaceAll(row.NotePath.String, cloudPrefix, ""),
		Content: row.Content.String,
	}
	if row.Title.String != "" {
		n.URL = deeplink.Build(row.Title.String, "", "")
	}
	return n, true
}

func displayPath(row db.Note) string {
	if row.NotePath.String == "" {
		return row.ID
	}
	return strings.ReplaceAll(row.NotePath.String, cloudPrefix, "")
}

func nullable(s string, valid bool) *string {
	if !valid {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
