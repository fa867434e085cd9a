// Package watch implements the cache-invalidation watcher (C14): it
// notices when one of the storage root's registry files changes on disk
// (a write from a foreign process — another rlmctx instance, or a
// manual edit) and calls back so in-memory state can be reloaded to
// match. It uses fsnotify when available and falls back to mtime
// polling when it is not, mirroring the hybrid strategy the wider
// ecosystem uses for filesystem watching.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval is the polling fallback's scan period.
const pollInterval = 2 * time.Second

// OnChange is called with the base name of a watched file once its
// mtime or size has been observed to change.
type OnChange func(name string)

// Watcher notices writes to a fixed set of files under a storage root.
type Watcher struct {
	root     string
	files    map[string]struct{}
	onEvent  OnChange
	logger   *slog.Logger
	interval time.Duration
}

// New builds a Watcher over root, watching exactly the given file names
// (matched by base name, not full path — all files live directly under
// root). onEvent fires for every observed change: once per fsnotify write
// or create event, or once per changed file per polling tick. Calls are
// not debounced.
func New(root string, files []string, onEvent OnChange, logger *slog.Logger) *Watcher {
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{root: root, files: set, onEvent: onEvent, logger: logger, interval: pollInterval}
}

// Run watches until ctx is canceled. It tries fsnotify first; if the
// watcher cannot be created (e.g. inotify instance limits reached), it
// falls back to polling. Either way Run blocks until ctx.Done().
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("fsnotify unavailable, falling back to polling", slog.String("error", err.Error()))
		return w.runPolling(ctx)
	}
	defer fsw.Close()

	if err := fsw.Add(w.root); err != nil {
		w.logger.Warn("fsnotify add failed, falling back to polling", slog.String("error", err.Error()))
		return w.runPolling(ctx)
	}

	w.logger.Debug("watching storage root via fsnotify", slog.String("root", w.root))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fsnotify error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Base(event.Name)
	if _, ok := w.files[name]; !ok {
		return
	}
	w.logger.Debug("watched file changed", slog.String("file", name))
	w.onEvent(name)
}
