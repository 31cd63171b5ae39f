// Package watch re-runs a callback when lexicon files under a directory tree
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a directory tree for *.json changes.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
}

// New watches dir and every subdirectory beneath it.
func New(dir string, debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{dir: dir, debounce: debounce, logger: logger, watcher: fw}
	if err := w.addTree(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Close releases the underlying watcher. Run returns once it is closed.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange after each settled burst of *.json changes until ctx is
// done. Errors from onChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories are not covered by the existing watches.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn().Err(err).Msg("watch new directory")
					}
					timer.Reset(w.debounce)
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("lexicon changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := onChange(); err != nil {
				w.logger.Error().Err(err).Msg("regenerate failed")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".json" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
