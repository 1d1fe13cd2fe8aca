package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"switchboard/internal/domain/directory"
)

// reloadDebounce coalesces the burst of events an editor emits per save.
const reloadDebounce = 200 * time.Millisecond

// DirectoryWatcher holds the current Directory and reloads it when the
// backing file changes. This replaces the host page's attribute-observer
// timing workaround: consumers ask for Current() when they render instead
// of racing a deferred DOM read.
type DirectoryWatcher struct {
	path string

	// OnReload, when set before Watch starts, is invoked after each
	// successful reload. Callers use it to re-render.
	OnReload func()

	mu      sync.RWMutex
	current *directory.Directory
}

// NewDirectoryWatcher loads path and returns a watcher serving it.
// PRE: path names a readable directory file
// POST: Current() serves the loaded directory
func NewDirectoryWatcher(path string) (*DirectoryWatcher, error) {
	dir, err := LoadDirectory(path)
	if err != nil {
		return nil, err
	}
	return &DirectoryWatcher{path: path, current: dir}, nil
}

// Current returns the most recently loaded directory.
// INVARIANT: The returned Directory is never mutated by the watcher;
// reloads swap in a fresh one
func (w *DirectoryWatcher) Current() *directory.Directory {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Watch reloads the directory whenever the file changes, until ctx is
// cancelled. A reload that fails to parse keeps the previous directory.
func (w *DirectoryWatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent: editors replace files on save, which drops the
	// watch when it targets the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	target := filepath.Base(w.path)
	var debounce *time.Timer
	reloads := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
		case <-reloads:
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("directory_event", "event", "watch_error", "error", err.Error())
		}
	}
}

func (w *DirectoryWatcher) reload() {
	dir, err := LoadDirectory(w.path)
	if err != nil {
		slog.Warn("directory_event", "event", "reload_failed", "path", w.path, "error", err.Error())
		return
	}
	w.mu.Lock()
	w.current = dir
	w.mu.Unlock()
	slog.Info("directory_event", "event", "reloaded", "path", w.path, "organizations", dir.Len())
	if w.OnReload != nil {
		w.OnReload()
	}
}
