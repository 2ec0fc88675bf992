// Package watcher implements file system watching using fsnotify.
package watcher

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"context"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/ripple/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are directories that are never watched.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
}

const eventChannelBuffer = 100

// Watcher watches one directory tree recursively and converts fsnotify
// events to ports.WatchEvent values.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// New creates a new, unstarted file system watcher.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: w,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching the given root directory recursively. If ctx is
// cancelled before all directories are registered, Start unwinds without
// leaving a running event loop.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.walkDirectories(root) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator over file system events. The iterator ends
// when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// walkDirectories yields every watchable directory under root.
func (w *Watcher) walkDirectories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Skip directories we cannot access rather than aborting the walk.
				return nil //nolint:nilerr
			}
			if !d.IsDir() {
				return nil
			}
			if skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// processEvents converts raw fsnotify events until the watcher stops or the
// context is cancelled.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, known := convertEvent(event)
			if !known {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			// New directories join the watch set so nested edits are seen.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDirectories[info.Name()] {
					for dir := range w.walkDirectories(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep consuming events.
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	case event.Op&fsnotify.Create == fsnotify.Create:
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}, true
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
