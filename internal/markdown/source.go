// Package markdown searches, lists and resolves the plain-text notes NotePlan
// keeps on disk.
package markdown

import (
	"bytes"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mgomes/npq/internal/config"
	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/deeplink"
	"github.com/mgomes/npq/internal/note"
	"github.com/mgomes/npq/internal/snippet"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Source struct {
	roots []config.Root
}

// file is a candidate note found while walking a root.
type file struct {
	root     config.Root
	abs      string
	rel      string
	info     fs.FileInfo
	modified string
}

func New(roots []config.Root) *Source {
	return &Source{roots: roots}
}

// Roots returns the roots that exist on disk, in search order.
func (s *Source) Roots() []config.Root {
	var roots []config.Root
	for _, r := range s.roots {
		if info, err := os.Stat(r.Dir); err == nil && info.IsDir() {
			roots = append(roots, r)
		}
	}
	return roots
}

// Search yields notes containing term, ignoring case, whose modification time
// passes filter. Files that cannot be read as UTF-8 are skipped.
func (s *Source) Search(term string, filter datefilter.Filter, includeSpecial bool) iter.Seq[note.Result] {
	return func(yield func(note.Result) bool) {
		for f := range s.files(includeSpecial) {
			if !filter.Match(&f.modified) {
				continue
			}

			content, ok := readText(f.abs)
			if !ok || !snippet.Contains(content, term) {
				continue
			}

			text, line := snippet.Extract(content, term, snippet.DefaultWidth)
			title := note.TitleFromContent(content, deeplink.Stem(f.info.Name()))
			modified := f.modified

			result := note.Result{
				Source:     note.SourceMarkdown,
				Title:      note.TruncateTitle(title),
				Path:       f.root.Label + "/" + f.rel,
				Snippet:    text,
				LineNumber: line,
				ModifiedAt: &modified,
				URL:        deeplink.Build(title, f.info.Name(), f.rel),
			}
			if !yield(result) {
				return
			}
		}
	}
}

// List returns every note file passing filter, most recently modified first.
// File contents are not read.
func (s *Source) List(filter datefilter.Filter, includeSpecial bool) []note.FileEntry {
	var entries []note.FileEntry
	for f := range s.files(includeSpecial) {
		if !filter.Match(&f.modified) {
			continue
		}

		name := f.info.Name()
		entries = append(entries, note.FileEntry{
			Path:       f.root.Label + "/" + f.rel,
			Filename:   name,
			ModifiedAt: f.modified,
			URL:        deeplink.Build(deeplink.Stem(name), name, f.rel),
		})
	}

	slices.SortStableFunc(entries, func(a, b note.FileEntry) int {
		return strings.Compare(b.ModifiedAt, a.ModifiedAt)
	})
	return entries
}

// ResolveLabeled resolves identifiers of the form "<label>/<relative path>",
// as printed in search results, against the root with that label.
func (s *Source) ResolveLabeled(identifier string) (note.Note, bool) {
	for _, r := range s.roots {
		rel, ok := strings.CutPrefix(identifier, r.Label+"/")
		if !ok {
			continue
		}
		if n, ok := readNote(r.Dir, rel); ok {
			return n, true
		}
	}
	return note.Note{}, false
}

// ResolvePath treats identifier as a path relative to each existing root.
func (s *Source) ResolvePath(identifier string) (note.Note, bool) {
	for _, r := range s.Roots() {
		if n, ok := readNote(r.Dir, identifier); ok {
			return n, true
		}
	}
	return note.Note{}, false
}

// ResolveName finds the first file with extension ext whose name or stem
// equals identifier ignoring case. @-folders are searched too.
func (s *Source) ResolveName(identifier, ext string) (note.Note, bool) {
	for _, r := range s.Roots() {
		for f := range walk(r, true) {
			name := f.info.Name()
			if !hasExt(name, ext) {
				continue
			}
			if !strings.EqualFold(name, identifier) && !strings.EqualFold(deeplink.Stem(name), identifier) {
				continue
			}
			if n, ok := readNote(r.Dir, f.rel); ok {
				return n, true
			}
		}
	}
	return note.Note{}, false
}

func (s *Source) files(includeSpecial bool) iter.Seq[file] {
	return func(yield func(file) bool) {
		for _, r := range s.Roots() {
			for f := range walk(r, includeSpecial) {
				if !isNoteFile(f.info.Name()) {
					continue
				}
				if !yield(f) {
					return
				}
			}
		}
	}
}

// walk yields the regular files below root in lexical order, following
// symlinked files and a symlinked root. Unreadable directories are skipped.
func walk(root config.Root, includeSpecial bool) iter.Seq[file] {
	return func(yield func(file) bool) {
		top := walkRoot(root.Dir)
		_ = filepath.WalkDir(top, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}

			if d.IsDir() {
				if path != top && !includeSpecial && isSpecialDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(root.Dir, path)
			if err != nil {
				return nil
			}
			if !includeSpecial && isSpecialRelPath(rel) {
				return nil
			}

			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}

			f := file{
				root:     root,
				abs:      path,
				rel:      filepath.ToSlash(rel),
				info:     info,
				modified: datefilter.Timestamp(info.ModTime()),
			}
			if !yield(f) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// readNote loads rel below dir. rel must stay inside dir.
func readNote(dir, rel string) (note.Note, bool) {
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return note.Note{}, false
	}

	path := filepath.Join(dir, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return note.Note{}, false
	}

	content, ok := readText(path)
	if !ok {
		return note.Note{}, false
	}

	title := note.TitleFromContent(content, deeplink.Stem(info.Name()))
	return note.Note{
		Found:   true,
		Source:  note.SourceMarkdown,
		Title:   &title,
		Path:    path,
		Content: content,
		URL:     deeplink.Build(title, info.Name(), filepath.ToSlash(rel)),
	}, true
}

// readText returns the file as text with universal newlines and without a
// byte order mark. ok is false for unreadable or non-UTF-8 files.
func readText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", false
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), true
}
