// Package cache provides the in-memory compiled-artifact store.
package cache

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ripple/internal/core/ports"
)

// Store is a thread-safe in-memory ArtifactStore. Entries are removed, not
// recomputed, on invalidation; a read racing a removal may observe either
// the old artifact or a miss, which is safe because recomputation is
// idempotent and deterministic given unit content.
type Store struct {
	mu      sync.RWMutex
	entries map[ports.ArtifactKey]ports.Artifact
}

var _ ports.ArtifactStore = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[ports.ArtifactKey]ports.Artifact),
	}
}

// Get returns the artifact for the key, or false on a miss.
func (s *Store) Get(key ports.ArtifactKey) (ports.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.entries[key]
	return a, ok
}

// Put stores an artifact for the key, replacing any previous entry. The
// artifact is stamped with an xxhash digest of its data so callers can
// detect unchanged recompiles cheaply.
func (s *Store) Put(key ports.ArtifactKey, data []byte) {
	artifact := ports.Artifact{
		Data:     data,
		Digest:   xxhash.Sum64(data),
		StoredAt: time.Now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = artifact
}

// Remove deletes the entry if present. Removing a missing entry is a no-op.
func (s *Store) Remove(key ports.ArtifactKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return ok
}

// RemoveSession deletes every entry for the session.
func (s *Store) RemoveSession(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.entries {
		if key.SessionID == sessionID {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns current entry counts.
func (s *Store) Stats() ports.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make(map[string]struct{})
	for key := range s.entries {
		sessions[key.SessionID] = struct{}{}
	}
	return ports.CacheStats{
		Entries:  len(s.entries),
		Sessions: len(sessions),
	}
}
