package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

type snapshot struct {
	modTime time.Time
	size    int64
}

// runPolling scans the watched files' mtimes every pollInterval, firing
// onEvent for any file whose mtime or size differs from the last scan.
// Used when fsnotify.NewWatcher fails (e.g. inotify resource limits).
func (w *Watcher) runPolling(ctx context.Context) error {
	state := make(map[string]snapshot, len(w.files))
	for name := range w.files {
		state[name] = w.statSnapshot(name)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for name := range w.files {
				current := w.statSnapshot(name)
				if current != state[name] {
					state[name] = current
					w.onEvent(name)
				}
			}
		}
	}
}

func (w *Watcher) statSnapshot(name string) snapshot {
	info, err := os.Stat(filepath.Join(w.root, name))
	if err != nil {
		return snapshot{}
	}
	return snapshot{modTime: info.ModTime(), size: info.Size()}
}
