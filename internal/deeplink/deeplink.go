// Package deeplink builds noteplan:// x-callback URLs that open a note in NotePlan.
package deeplink

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

const openNote = "noteplan://x-callback-url/openNote"

var calendarStem = regexp.MustCompile(`^\d{8}$`)

// Build returns the most reliable link for a note. A calendar file name
// (YYYYMMDD) always wins, then the relative path, the bare file name and
// finally the title. It returns "" when nothing is known about the note.
func Build(title, filename, relPath string) string {
	if filename != "" {
		if stem := Stem(filename); calendarStem.MatchString(stem) {
			return openNote + "?noteDate=" + stem
		}
	}

	switch {
	case relPath != "":
		return openNote + "?filename=" + Escape(relPath)
	case filename != "":
		return openNote + "?filename=" + Escape(filename)
	case title != "":
		return openNote + "?noteTitle=" + Escape(title)
	}

	return ""
}

// Stem returns the base name of name without its extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Escape percent-encodes every byte of s outside the unreserved set
// A-Z a-z 0-9 - . _ ~, including '/' and space.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
