package ports

import "time"

// ArtifactKey identifies one cached compiled artifact.
type ArtifactKey struct {
	SessionID string
	UnitID    string
}

// Artifact is a compiled artifact held by the store. Absence of an artifact
// is a valid state meaning "recompute lazily on next access".
type Artifact struct {
	Data     []byte
	Digest   uint64
	StoredAt time.Time
}

// CacheStats reports entry counts for observability.
type CacheStats struct {
	Entries  int
	Sessions int
}

// ArtifactStore stores compiled artifacts keyed by (session, unit).
// Implementations must be safe for concurrent use; a read racing a removal
// may return either the old artifact or a miss, both are correct because
// recomputation is idempotent.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ArtifactStore interface {
	// Get returns the artifact for the key, or false on a miss.
	Get(key ArtifactKey) (Artifact, bool)

	// Put stores an artifact for the key, replacing any previous entry.
	Put(key ArtifactKey, data []byte)

	// Remove deletes the entry if present and reports whether one existed.
	// Removing a missing entry is a no-op success.
	Remove(key ArtifactKey) bool

	// RemoveSession deletes every entry for the session and returns how many
	// were removed.
	RemoveSession(sessionID string) int

	// Stats returns current entry counts.
	Stats() CacheStats
}
