// Package invalidate removes stale compiled artifacts from the store when
// their source units changed. Invalidation is idempotent: a unit with no
// cached artifact is already in the desired state.
package invalidate

import (
	"fmt"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
)

// Service evicts artifacts for invalidated compilation units.
type Service struct {
	store  ports.ArtifactStore
	logger ports.Logger
}

// New creates an invalidation Service over the given artifact store.
func New(store ports.ArtifactStore, logger ports.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// InvalidateUnit evicts one unit's artifact and reports whether an artifact
// was actually present.
func (s *Service) InvalidateUnit(sessionID string, unitID domain.InternedString) bool {
	return s.store.Remove(ports.ArtifactKey{SessionID: sessionID, UnitID: unitID.String()})
}

// InvalidateUnits evicts the artifacts of all given units and returns how
// many cached artifacts were actually removed. Units without a cached
// artifact contribute nothing; they are simply already invalid.
func (s *Service) InvalidateUnits(sessionID string, unitIDs []domain.InternedString) int {
	removed := 0
	for _, id := range unitIDs {
		if s.InvalidateUnit(sessionID, id) {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info(fmt.Sprintf("invalidated %d of %d unit(s) for session %s",
			removed, len(unitIDs), sessionID))
	}
	return removed
}

// InvalidateAll evicts every artifact the session holds and returns the count.
func (s *Service) InvalidateAll(sessionID string) int {
	removed := s.store.RemoveSession(sessionID)
	if removed > 0 {
		s.logger.Info(fmt.Sprintf("invalidated all %d artifact(s) for session %s", removed, sessionID))
	}
	return removed
}

// Stats exposes the artifact store's entry counts.
func (s *Service) Stats() ports.CacheStats {
	return s.store.Stats()
}
