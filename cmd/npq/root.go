package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mgomes/npq/internal/config"
	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/markdown"
	"github.com/mgomes/npq/internal/mcpserver"
	"github.com/mgomes/npq/internal/note"
	"github.com/mgomes/npq/internal/render"
	"github.com/mgomes/npq/internal/search"
	"github.com/mgomes/npq/internal/spaces"
	"github.com/mgomes/npq/internal/tui"
)

const examples = `  npq "meeting notes"                                Search all sources
  npq "todo" --md                                    Search markdown files only
  npq "project" --spaces                             Search Spaces only
  npq --list                                         List all notes
  npq --get UUID                                     Fetch full note by Spaces ID
  npq --get "Note Title"                             Fetch note by title
  npq --get Notes/myfile.md                          Fetch markdown file by path
  npq "search" --json                                JSON output (for AI tools)
  npq "coffee" --after 2025-01-01                    Notes modified after date
  npq "coffee" --before 2025-01-15                   Notes modified before date
  npq --list --after 2025-01-01 --before 2025-01-31  Date range
  npq "template" --all                               Include @Templates, @Trash, @Archive
  npq -i "coffee"                                    Browse results interactively
  npq -w "coffee"                                    Re-run the search when notes change
  npq --mcp                                          Serve MCP tools over stdio`

type options struct {
	markdownOnly  bool
	spacesOnly    bool
	list          bool
	get           string
	asJSON        bool
	after         string
	before        string
	all           bool
	noColor       bool
	caseSensitive bool
	interactive   bool
	watch         bool
	mcp           bool
	dbPath        string
	notesDir      string
	calendarDir   string
	icloudDir     string
	logLevel      string
}

type app struct {
	opts     options
	markdown *markdown.Source
	searcher *search.Searcher
	filter   datefilter.Filter
	stdout   io.Writer
	stderr   io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "npq [query]",
		Short:         "Search NotePlan notes (markdown + Spaces)",
		Long:          "Search NotePlan notes and calendar files on disk and the Spaces database, most recently modified first.",
		Example:       examples,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return run(cmd, opts, query, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.BoolVar(&opts.markdownOnly, "md", false, "Search markdown files only")
	f.BoolVar(&opts.spacesOnly, "spaces", false, "Search Spaces (SQLite) only")
	f.BoolVarP(&opts.list, "list", "l", false, "List all notes")
	f.StringVarP(&opts.get, "get", "g", "", "Fetch full note by ID, title, or path")
	f.BoolVarP(&opts.asJSON, "json", "j", false, "Output as JSON (for AI tools)")
	f.StringVar(&opts.after, "after", "", "Only notes modified after DATE (YYYY-MM-DD)")
	f.StringVar(&opts.before, "before", "", "Only notes modified before DATE (YYYY-MM-DD)")
	f.BoolVarP(&opts.all, "all", "a", false, "Include @folders (templates, trash, archive)")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&opts.caseSensitive, "case-sensitive", "c", false, "Case-sensitive search (currently has no effect)")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Browse results interactively")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Re-run the search when notes change")
	f.BoolVar(&opts.mcp, "mcp", false, "Serve search_notes, get_note and list_notes over MCP stdio")
	f.StringVar(&opts.dbPath, "db", "", "Path to teamspace.db")
	f.StringVar(&opts.notesDir, "notes-dir", "", "Path to Notes directory")
	f.StringVar(&opts.calendarDir, "calendar-dir", "", "Path to Calendar directory")
	f.StringVar(&opts.icloudDir, "icloud-dir", "", "Path to NotePlan's iCloud Drive folder")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.MarkFlagsMutuallyExclusive("interactive", "watch")

	return cmd
}

func run(cmd *cobra.Command, opts options, query string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.applyTo(cfg)

	noColor := opts.noColor || opts.asJSON || !isTerminal(stderr)
	if err := setupLogging(cfg.LogLevel, stderr, noColor); err != nil {
		return err
	}

	a := &app{
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
	}
	a.markdown = markdown.New(cfg.Roots())
	a.searcher = search.New(a.markdown, spaces.New(cfg.DBPath))

	if opts.mcp {
		return mcpserver.NewNotesServer(a.searcher, version).Serve()
	}

	a.filter, err = datefilter.Parse(opts.after, opts.before)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	switch {
	case opts.get != "":
		return a.printer().Note(a.searcher.Get(ctx, opts.get))
	case opts.list:
		return a.runList(ctx)
	case opts.interactive:
		return a.runInteractive(ctx, query)
	case query == "":
		return cmd.Help()
	case opts.watch:
		return a.runWatch(ctx, query)
	default:
		return a.runSearch(ctx, query)
	}
}

func (o options) applyTo(cfg *config.Config) {
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.notesDir != "" {
		cfg.NotesDir = o.notesDir
	}
	if o.calendarDir != "" {
		cfg.CalendarDir = o.calendarDir
	}
	if o.icloudDir != "" {
		cfg.ICloudDir = o.icloudDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func setupLogging(level string, w io.Writer, noColor bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: noColor})
	return nil
}

func (a *app) options() search.Options {
	return search.Options{
		MarkdownOnly:   a.opts.markdownOnly,
		SpacesOnly:     a.opts.spacesOnly,
		IncludeSpecial: a.opts.all,
		CaseSensitive:  a.opts.caseSensitive,
		Filter:         a.filter,
	}
}

func (a *app) printer() *render.Printer {
	return render.NewPrinter(a.stdout, a.opts.asJSON, !a.opts.noColor && isTerminal(a.stdout))
}

func (a *app) runSearch(ctx context.Context, query string) error {
	return a.printer().Search(query, a.searcher.Search(ctx, query, a.options()))
}

func (a *app) runList(ctx context.Context) error {
	listing, err := a.searcher.List(ctx, a.options())
	if err != nil && !a.opts.asJSON {
		fmt.Fprintf(a.stderr, "  Database error: %v\n", err)
	}
	return a.printer().Listing(listing, a.filter, !a.opts.markdownOnly, !a.opts.spacesOnly)
}

func (a *app) runWatch(ctx context.Context, query string) error {
	if err := a.runSearch(ctx, query); err != nil {
		return err
	}

	watcher, err := markdown.NewWatcher(a.markdown, a.opts.all)
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("watching notes for changes")
	return watcher.Run(ctx, func() {
		if err := a.runSearch(ctx, query); err != nil {
			log.Error().Err(err).Msg("search failed")
		}
	})
}

func (a *app) runInteractive(ctx context.Context, query string) error {
	opts := a.options()
	model := tui.NewSearchModel(query, func(q string) []note.Result {
		return a.searcher.Search(ctx, q, opts)
	})

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(a.stdout))
	_, err := program.Run()
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
