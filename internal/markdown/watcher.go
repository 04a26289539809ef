package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const debounceDelay = 2 * time.Second

// Watcher reports changes to note files below a Source's roots.
type Watcher struct {
	source         *Source
	watcher        *fsnotify.Watcher
	includeSpecial bool
	delay          time.Duration
}

func NewWatcher(source *Source, includeSpecial bool) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		source:         source,
		watcher:        fsw,
		includeSpecial: includeSpecial,
		delay:          debounceDelay,
	}, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange once a burst of changes has settled, until ctx is done.
// onChange runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	for _, r := range w.source.Roots() {
		if err := w.addWatchRecursive(r.Dir); err != nil {
			return err
		}
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				settle = time.After(w.delay)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-settle:
			settle = nil
			onChange()
		}
	}
}

func (w *Watcher) addWatchRecursive(dir string) error {
	top := walkRoot(dir)
	return filepath.WalkDir(top, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != top && !w.includeSpecial && isSpecialDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(filepath.Clean(path)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// handleEvent reports whether event touches a note file. New directories
// are watched as they appear.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if !w.includeSpecial && isSpecialDir(name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addWatchRecursive(event.Name); err != nil {
				log.Warn().Err(err).Msg("watch error")
			}
			return true
		}
	}

	if !isNoteFile(name) {
		return false
	}

	log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("detected change")
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
