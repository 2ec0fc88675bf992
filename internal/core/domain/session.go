package domain

import "time"

// SessionState identifies where a session is in its lifecycle.
// Transitions: Created -> Active <-> Paused -> Disposed.
type SessionState string

const (
	// SessionCreated is the in-constructor stage; sessions become Active
	// before they are observable through the registry.
	SessionCreated SessionState = "created"
	// SessionActive indicates the session is serving analysis requests.
	SessionActive SessionState = "active"
	// SessionPaused indicates external tools may be editing files; changes
	// are tracked for invalidation on resume.
	SessionPaused SessionState = "paused"
	// SessionDisposed indicates the session has been destroyed.
	SessionDisposed SessionState = "disposed"
)

// Session is the registry's record of one workspace session. It is owned
// exclusively by the SessionRegistry and mutated only through its
// transition methods.
type Session struct {
	ID             InternedString
	Root           string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	State          SessionState
	PausedAt       *time.Time
}

// NewSession creates an Active session rooted at the given path.
func NewSession(id, root string, now time.Time) Session {
	return Session{
		ID:             Intern(id),
		Root:           root,
		CreatedAt:      now,
		LastAccessedAt: now,
		State:          SessionActive,
	}
}

// IsPaused reports whether the session is currently paused.
func (s Session) IsPaused() bool {
	return s.State == SessionPaused
}
