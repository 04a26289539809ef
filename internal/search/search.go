// Package search merges, resolves and lists notes across the markdown and
// Spaces sources.
package search

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/markdown"
	"github.com/mgomes/npq/internal/note"
	"github.com/mgomes/npq/internal/spaces"
)

// Options selects sources and filters for a search or listing.
type Options struct {
	MarkdownOnly   bool
	SpacesOnly     bool
	IncludeSpecial bool
	// CaseSensitive is accepted for compatibility but matching always
	// ignores case.
	CaseSensitive bool
	Filter        datefilter.Filter
}

type Searcher struct {
	markdown *markdown.Source
	spaces   *spaces.Source
}

func New(md *markdown.Source, sp *spaces.Source) *Searcher {
	return &Searcher{
		markdown: md,
		spaces:   sp,
	}
}

// Search returns every note matching query, most recently modified first.
// Notes without a modification time come last.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) []note.Result {
	if opts.CaseSensitive {
		log.Debug().Msg("case-sensitive matching is not supported; ignoring")
	}

	var results []note.Result
	if !opts.SpacesOnly {
		for r := range s.markdown.Search(query, opts.Filter, opts.IncludeSpecial) {
			results = append(results, r)
		}
	}
	if !opts.MarkdownOnly {
		for r := range s.spaces.Search(ctx, query, opts.Filter) {
			results = append(results, r)
		}
	}

	slices.SortStableFunc(results, func(a, b note.Result) int {
		return strings.Compare(modifiedKey(b), modifiedKey(a))
	})
	return results
}

// Get resolves identifier to a single note: a Spaces id or title first, then
// a labelled path, a path under any root, and finally a .md or .txt file
// name anywhere below the roots.
func (s *Searcher) Get(ctx context.Context, identifier string) note.Note {
	if n, ok := s.spaces.Get(ctx, identifier); ok {
		return n
	}

	resolvers := []func(string) (note.Note, bool){
		s.markdown.ResolveLabeled,
		s.markdown.ResolvePath,
		func(id string) (note.Note, bool) { return s.markdown.ResolveName(id, ".md") },
		func(id string) (note.Note, bool) { return s.markdown.ResolveName(id, ".txt") },
	}
	for _, resolve := range resolvers {
		if n, ok := resolve(identifier); ok {
			return n
		}
	}

	return note.NotFound(identifier)
}

// List returns the Spaces rows and markdown files passing opts.Filter. A
// Spaces database error is returned alongside whatever was listed.
func (s *Searcher) List(ctx context.Context, opts Options) (note.Listing, error) {
	listing := note.NewListing()

	var err error
	if !opts.MarkdownOnly {
		var entries []note.SpaceEntry
		entries, err = s.spaces.List(ctx, opts.Filter)
		if entries != nil {
			listing.Spaces = entries
		}
	}

	if !opts.SpacesOnly {
		if files := s.markdown.List(opts.Filter, opts.IncludeSpecial); files != nil {
			listing.Markdown = files
		}
	}

	return listing, err
}

func modifiedKey(r note.Result) string {
	if r.ModifiedAt == nil {
		return ""
	}
	return *r.ModifiedAt
}
