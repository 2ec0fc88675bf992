// Package registry owns the session table: creation, lookup, lifecycle
// transitions and idle reaping. Sessions are mutated only through the
// registry, and each session carries a guard mutex so lifecycle operations
// on one session serialize while different sessions proceed in parallel.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultIdleTimeout is how long an active session may go without being
	// touched before the reaper disposes it. Paused sessions are exempt: a
	// pause is an explicit promise to come back.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultReapInterval is how often the reaper scans for idle sessions.
	DefaultReapInterval = time.Minute
)

// Option configures a Registry.
type Option func(*Registry)

// WithIdleTimeout overrides the idle timeout.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		r.idleTimeout = timeout
	}
}

// WithReapInterval overrides the reaper scan interval.
func WithReapInterval(interval time.Duration) Option {
	return func(r *Registry) {
		r.reapInterval = interval
	}
}

// Registry is the session table.
type Registry struct {
	logger       ports.Logger
	idleTimeout  time.Duration
	reapInterval time.Duration

	mu       sync.Mutex
	sessions map[domain.InternedString]*entry
}

// entry pairs a session record with its lifecycle guard.
type entry struct {
	guard   sync.Mutex
	session domain.Session
}

// New creates an empty Registry.
func New(logger ports.Logger, opts ...Option) *Registry {
	r := &Registry{
		logger:       logger,
		idleTimeout:  DefaultIdleTimeout,
		reapInterval: DefaultReapInterval,
		sessions:     make(map[domain.InternedString]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new session rooted at the given path. The session is
// Active immediately; Created is never observable from outside.
func (r *Registry) Create(id, root string) (domain.Session, error) {
	key := domain.Intern(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[key]; exists {
		return domain.Session{}, zerr.With(domain.ErrSessionExists, "session_id", id)
	}
	session := domain.NewSession(id, root, time.Now())
	r.sessions[key] = &entry{session: session}
	return session, nil
}

// Snapshot returns a copy of the session record.
func (r *Registry) Snapshot(id string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[domain.Intern(id)]
	if !ok {
		return domain.Session{}, zerr.With(domain.ErrSessionNotFound, "session_id", id)
	}
	return e.session, nil
}

// Touch records activity on the session, deferring the idle reaper.
func (r *Registry) Touch(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[domain.Intern(id)]
	if !ok {
		return zerr.With(domain.ErrSessionNotFound, "session_id", id)
	}
	e.session.LastAccessedAt = time.Now()
	return nil
}

// Guard acquires the session's lifecycle guard, serializing pause/resume/
// close against each other for this session. The returned unlock must be
// called exactly once. Guarding does not pin the session: a concurrent
// Remove may still delete it, so callers re-check state after acquiring.
func (r *Registry) Guard(id string) (func(), error) {
	r.mu.Lock()
	e, ok := r.sessions[domain.Intern(id)]
	r.mu.Unlock()
	if !ok {
		return nil, zerr.With(domain.ErrSessionNotFound, "session_id", id)
	}
	e.guard.Lock()
	return e.guard.Unlock, nil
}

// MarkPaused transitions Active -> Paused.
func (r *Registry) MarkPaused(id string) (domain.Session, error) {
	return r.transition(id, domain.SessionActive, func(s *domain.Session, now time.Time) {
		s.State = domain.SessionPaused
		s.PausedAt = &now
	})
}

// MarkResumed transitions Paused -> Active.
func (r *Registry) MarkResumed(id string) (domain.Session, error) {
	return r.transition(id, domain.SessionPaused, func(s *domain.Session, _ time.Time) {
		s.State = domain.SessionActive
		s.PausedAt = nil
	})
}

// transition applies fn if the session is in the required state.
func (r *Registry) transition(id string, required domain.SessionState, fn func(*domain.Session, time.Time)) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[domain.Intern(id)]
	if !ok {
		return domain.Session{}, zerr.With(domain.ErrSessionNotFound, "session_id", id)
	}
	if e.session.State != required {
		err := zerr.With(domain.ErrInvalidSessionState, "session_id", id)
		return domain.Session{}, zerr.With(err, "state", string(e.session.State))
	}
	now := time.Now()
	fn(&e.session, now)
	e.session.LastAccessedAt = now
	return e.session, nil
}

// Remove marks the session disposed and deletes it from the table, returning
// the final record. Removing is legal from any live state.
func (r *Registry) Remove(id string) (domain.Session, error) {
	key := domain.Intern(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[key]
	if !ok {
		return domain.Session{}, zerr.With(domain.ErrSessionNotFound, "session_id", id)
	}
	delete(r.sessions, key)
	e.session.State = domain.SessionDisposed
	e.session.PausedAt = nil
	return e.session, nil
}

// List returns a copy of all session records.
func (r *Registry) List() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.session)
	}
	return out
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartReaper runs the idle scan until the context is cancelled. For every
// active session idle longer than the timeout it calls dispose with the
// session id; dispose is expected to run the full close path. Paused
// sessions are never reaped.
func (r *Registry) StartReaper(ctx context.Context, dispose func(sessionID string)) {
	go func() {
		ticker := time.NewTicker(r.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, id := range r.idleSessions() {
					r.logger.Info(fmt.Sprintf("session %s idle for over %s, disposing", id, r.idleTimeout))
					dispose(id)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// idleSessions returns the ids of active sessions past the idle timeout.
func (r *Registry) idleSessions() []string {
	cutoff := time.Now().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	var idle []string
	for _, e := range r.sessions {
		if e.session.State == domain.SessionActive && e.session.LastAccessedAt.Before(cutoff) {
			idle = append(idle, e.session.ID.String())
		}
	}
	return idle
}
