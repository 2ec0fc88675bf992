// Package tracker implements the change tracker: while a session is paused
// it watches the session root, coalesces bursts of file events into batches,
// and answers "what changed since T" on resume.
package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultQuiescenceWindow is the debounce interval used to batch rapid
// successive file change events into one notification.
const DefaultQuiescenceWindow = 300 * time.Millisecond

const batchChannelBuffer = 16

// Option configures a Tracker.
type Option func(*Tracker)

// WithQuiescenceWindow overrides the debounce interval.
func WithQuiescenceWindow(window time.Duration) Option {
	return func(t *Tracker) {
		t.window = window
	}
}

// Tracker watches paused sessions for file changes. Each watched session
// gets its own watcher, debouncer and batch channel; batches flow over the
// channel to a per-session consumer goroutine, so there is no shared
// event-handler state between sessions.
type Tracker struct {
	newWatcher ports.WatcherFactory
	logger     ports.Logger
	window     time.Duration

	mu       sync.Mutex
	sessions map[domain.InternedString]*watchSession
}

// New creates a Tracker.
func New(newWatcher ports.WatcherFactory, logger ports.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		newWatcher: newWatcher,
		logger:     logger,
		window:     DefaultQuiescenceWindow,
		sessions:   make(map[domain.InternedString]*watchSession),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// watchSession is the tracker's per-session watch state.
type watchSession struct {
	watcher   ports.Watcher
	cancel    context.CancelFunc
	debouncer *Debouncer
	patterns  []string
	batches   chan domain.ChangeBatch
	done      chan struct{}

	mu      sync.Mutex
	records map[string]time.Time // path -> latest coalesced event time
}

// StartWatching begins monitoring the session root. The context only governs
// setup: cancellation before setup completes aborts without leaving any
// watching state behind; once started, watching continues until StopWatching.
// A session already being watched is restarted with the new parameters.
func (t *Tracker) StartWatching(ctx context.Context, sessionID, root string, patterns []string) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrWatchSetup.Error())
	}

	id := domain.Intern(sessionID)
	t.StopWatching(sessionID)

	w, err := t.newWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchSetup.Error())
	}

	runCtx, cancel := context.WithCancel(context.Background())

	// Propagate caller cancellation only while setup is in flight.
	stopPropagation := context.AfterFunc(ctx, cancel)
	startErr := w.Start(runCtx, root)
	stopPropagation()

	if startErr == nil {
		startErr = ctx.Err()
	}
	if startErr != nil {
		cancel()
		_ = w.Stop()
		return zerr.Wrap(startErr, domain.ErrWatchSetup.Error())
	}

	ws := &watchSession{
		watcher:  w,
		cancel:   cancel,
		patterns: patterns,
		batches:  make(chan domain.ChangeBatch, batchChannelBuffer),
		done:     make(chan struct{}),
		records:  make(map[string]time.Time),
	}
	ws.debouncer = NewDebouncer(t.window, func(paths []string) {
		batch := domain.ChangeBatch{SessionID: id, Paths: paths, At: time.Now()}
		ws.apply(batch)
		select {
		case ws.batches <- batch:
		case <-ws.done:
		}
	})

	go ws.pumpEvents()
	go t.consumeBatches(ws)

	t.mu.Lock()
	t.sessions[id] = ws
	t.mu.Unlock()
	return nil
}

// StopWatching stops monitoring the session. It is idempotent and safe to
// call for sessions that were never watched.
func (t *Tracker) StopWatching(sessionID string) {
	id := domain.Intern(sessionID)

	t.mu.Lock()
	ws, ok := t.sessions[id]
	if ok {
		delete(t.sessions, id)
	}
	t.mu.Unlock()

	if !ok {
		return
	}

	ws.cancel()
	_ = ws.watcher.Stop()
	ws.debouncer.Flush()
	close(ws.done)
}

// IsWatching reports whether the session is currently being watched.
func (t *Tracker) IsWatching(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.sessions[domain.Intern(sessionID)]
	return ok
}

// Changes returns the paths that changed since the given time, deduplicated
// by path: only the most recent coalesced event per path matters for
// invalidation. A session that is not being watched yields no changes.
func (t *Tracker) Changes(sessionID string, since time.Time) []string {
	t.mu.Lock()
	ws, ok := t.sessions[domain.Intern(sessionID)]
	t.mu.Unlock()
	if !ok {
		return nil
	}

	// Pull in anything still sitting inside the quiescence window.
	ws.debouncer.Flush()

	ws.mu.Lock()
	defer ws.mu.Unlock()
	paths := make([]string, 0, len(ws.records))
	for path, at := range ws.records {
		if !at.Before(since) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// pumpEvents feeds watcher events through the pattern filter into the
// debouncer. It exits when the watcher's event stream ends.
func (ws *watchSession) pumpEvents() {
	for event := range ws.watcher.Events() {
		if matchesPatterns(ws.patterns, event.Path) {
			ws.debouncer.Add(event.Path)
		}
	}
}

// consumeBatches drains the per-session batch channel. Records are already
// applied by the debouncer callback; the consumer observes batches for
// logging so bursts remain visible in operation logs.
func (t *Tracker) consumeBatches(ws *watchSession) {
	for {
		select {
		case batch := <-ws.batches:
			t.logger.Info(fmt.Sprintf("tracked %d changed file(s) for session %s",
				len(batch.Paths), batch.SessionID.String()))
		case <-ws.done:
			return
		}
	}
}

// apply merges a coalesced batch into the per-path record map.
func (ws *watchSession) apply(batch domain.ChangeBatch) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, path := range batch.Paths {
		ws.records[path] = batch.At
	}
}

// matchesPatterns reports whether the path matches any of the glob patterns.
// An empty pattern list matches everything. Patterns are tried against the
// base name first, then the full slash path.
func matchesPatterns(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}
