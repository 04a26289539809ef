// Package snippet extracts short, single-line excerpts around a search term.
package snippet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultWidth = 80
	previewLen   = 150
	ellipsis     = "..."
)

// Extract returns the text around the first case-insensitive occurrence of
// term, padded by width runes on each side, and the 1-based line the match
// starts on. When term does not occur the first 150 runes are returned as a
// preview with a nil line.
func Extract(text, term string, width int) (string, *int) {
	runes := []rune(text)
	termLen := utf8.RuneCountInString(term)

	pos := index(runes, term)
	if pos < 0 {
		end := min(len(runes), previewLen)
		return flatten(runes[:end]) + ellipsis, nil
	}

	line := 1
	for _, r := range runes[:pos] {
		if r == '\n' {
			line++
		}
	}

	start := max(0, pos-width)
	end := min(len(runes), pos+termLen+width)

	s := flatten(runes[start:end])
	if start > 0 {
		s = ellipsis + s
	}
	if end < len(runes) {
		s += ellipsis
	}

	return s, &line
}

// Contains reports whether term occurs in text, ignoring case.
func Contains(text, term string) bool {
	return index([]rune(text), term) >= 0
}

// index returns the rune offset of the first case-insensitive match of term
// in runes, or -1. Folding is done rune by rune so offsets in the folded text
// are valid offsets into the original.
func index(runes []rune, term string) int {
	folded := fold(runes)
	needle := fold([]rune(term))

	i := strings.Index(folded, needle)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(folded[:i])
}

func fold(runes []rune) string {
	var b strings.Builder
	b.Grow(len(runes))
	for _, r := range runes {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func flatten(runes []rune) string {
	return strings.TrimSpace(strings.ReplaceAll(string(runes), "\n", " "))
}
