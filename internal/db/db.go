// Package db reads NotePlan's Spaces (teamspace) SQLite database. It never writes.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	NoteTypeFolder = 10
	NoteTypePlain  = 11
)

// ErrNotExist is returned by Open when the database file is missing.
var ErrNotExist = errors.New("spaces database does not exist")

type DB struct {
	conn *sql.DB
}

// Note is a row of the notes table. Every column but id may be NULL.
type Note struct {
	ID         string
	Title      sql.NullString
	Filename   sql.NullString
	Content    sql.NullString
	NotePath   sql.NullString
	NoteType   sql.NullInt64
	ModifiedAt sql.NullString
}

const noteColumns = "id, title, filename, content, note_path, note_type, modified_at"

// Open opens the database at path read-only.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dsn := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}).String()
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// SearchNotes yields plain notes whose content or title contains term,
// ignoring ASCII case.
func (db *DB) SearchNotes(ctx context.Context, term string) iter.Seq2[Note, error] {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return db.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE (note_type = ? OR note_type IS NULL)
		  AND (LOWER(content) LIKE ? ESCAPE '\' OR LOWER(title) LIKE ? ESCAPE '\')
	`, NoteTypePlain, pattern, pattern)
}

// AllNotes yields every row, folders included, most recently modified first.
func (db *DB) AllNotes(ctx context.Context) iter.Seq2[Note, error] {
	return db.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		ORDER BY modified_at DESC
	`)
}

// NoteByID returns the note with the given id, or nil.
func (db *DB) NoteByID(ctx context.Context, id string) (*Note, error) {
	return db.queryNote(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
}

// NoteByTitle returns the first note whose title equals title ignoring case, or nil.
func (db *DB) NoteByTitle(ctx context.Context, title string) (*Note, error) {
	return db.queryNote(ctx, "SELECT "+noteColumns+" FROM notes WHERE LOWER(title) = LOWER(?)", title)
}

func (db *DB) queryNote(ctx context.Context, query string, args ...any) (*Note, error) {
	n, err := scanNote(db.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// queryNotes runs query lazily. A query or scan error is yielded once and
// ends the sequence.
func (db *DB) queryNotes(ctx context.Context, query string, args ...any) iter.Seq2[Note, error] {
	return func(yield func(Note, error) bool) {
		rows, err := db.conn.QueryContext(ctx, query, args...)
		if err != nil {
			yield(Note{}, err)
			return
		}
		defer rows.Close() //nolint:errcheck

		for rows.Next() {
			n, err := scanNote(rows)
			if err != nil {
				yield(Note{}, err)
				return
			}
			if !yield(n, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(Note{}, err)
		}
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (Note, error) {
	var n Note
	var id sql.NullString
	err := s.Scan(&id, &n.Title, &n.Filename, &n.Content, &n.NotePath, &n.NoteType, &n.ModifiedAt)
	n.ID = id.String
	return n, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
