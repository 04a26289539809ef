// Package dbtest builds teamspace.db fixtures for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE notes (
		id TEXT PRIMARY KEY,
		title TEXT,
		filename TEXT,
		content TEXT,
		note_path TEXT,
		note_type INTEGER,
		modified_at TEXT
	);
`

// Row is a fixture row. Nil pointers are stored as NULL.
type Row struct {
	ID         string
	Title      *string
	Filename   *string
	Content    *string
	NotePath   *string
	NoteType   *int
	ModifiedAt *string
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Create writes a teamspace.db containing rows into a temp dir and returns its path.
func Create(t *testing.T, rows ...Row) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "teamspace.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer conn.Close() //nolint:errcheck

	if _, err := conn.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	for _, r := range rows {
		_, err := conn.Exec(
			"INSERT INTO notes (id, title, filename, content, note_path, note_type, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			r.ID, r.Title, r.Filename, r.Content, r.NotePath, r.NoteType, r.ModifiedAt,
		)
		if err != nil {
			t.Fatalf("failed to insert fixture row %s: %v", r.ID, err)
		}
	}

	return path
}

// CreateBroken writes a database without a notes table so every query fails.
func CreateBroken(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "teamspace.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer conn.Close() //nolint:errcheck

	if _, err := conn.Exec("CREATE TABLE other (id TEXT)"); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return path
}
