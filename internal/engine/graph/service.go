// Package graph maintains the per-session dependency graphs: it builds
// immutable graph snapshots from the workspace model and swaps them in
// wholesale, so readers never observe a half-built graph.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxReferenceFetches bounds how many units have their references resolved
// concurrently during a rebuild.
const maxReferenceFetches = 8

// Service builds and caches one DependencyGraph per session.
type Service struct {
	model  ports.WorkspaceModel
	logger ports.Logger

	mu     sync.RWMutex
	graphs map[domain.InternedString]*sessionGraph
}

type sessionGraph struct {
	graph       *domain.DependencyGraph
	fingerprint uint64
}

// New creates a graph Service backed by the given workspace model.
func New(model ports.WorkspaceModel, logger ports.Logger) *Service {
	return &Service{
		model:  model,
		logger: logger,
		graphs: make(map[domain.InternedString]*sessionGraph),
	}
}

// Refresh takes a fresh workspace snapshot, builds a new graph and swaps it
// in as the session's current graph. The previous graph stays valid for
// readers that already hold it.
func (s *Service) Refresh(ctx context.Context, sessionID, root string) (*domain.DependencyGraph, error) {
	snapshot, err := s.model.Snapshot(ctx, root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to snapshot workspace")
	}

	g, err := s.build(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	id := domain.Intern(sessionID)
	fingerprint := snapshot.Fingerprint()

	s.mu.Lock()
	previous := s.graphs[id]
	s.graphs[id] = &sessionGraph{graph: g, fingerprint: fingerprint}
	s.mu.Unlock()

	if previous != nil && previous.fingerprint == fingerprint {
		s.logger.Info(fmt.Sprintf("graph for session %s rebuilt, structure unchanged (%d units, %d edges)",
			sessionID, g.UnitCount(), g.EdgeCount()))
	} else {
		s.logger.Info(fmt.Sprintf("graph for session %s rebuilt (%d units, %d edges)",
			sessionID, g.UnitCount(), g.EdgeCount()))
	}
	return g, nil
}

// Current returns the session's current graph without building one.
func (s *Service) Current(sessionID string) (*domain.DependencyGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sg, ok := s.graphs[domain.Intern(sessionID)]
	if !ok {
		return nil, zerr.With(domain.ErrGraphUnavailable, "session_id", sessionID)
	}
	return sg.graph, nil
}

// GraphFor returns the session's current graph, building it on first use.
func (s *Service) GraphFor(ctx context.Context, sessionID, root string) (*domain.DependencyGraph, error) {
	g, err := s.Current(sessionID)
	if err == nil {
		return g, nil
	}
	return s.Refresh(ctx, sessionID, root)
}

// Drop discards the session's graph. Dropping an unknown session is a no-op.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, domain.Intern(sessionID))
}

// build assembles a graph from one snapshot. Unit references are fetched
// concurrently but applied in enumeration order, so the result is
// deterministic. Self references and references to units absent from the
// snapshot are skipped with a warning rather than failing the build.
func (s *Service) build(ctx context.Context, snapshot ports.WorkspaceSnapshot) (*domain.DependencyGraph, error) {
	units := snapshot.Units()

	builder := domain.NewGraphBuilder()
	for _, u := range units {
		info := domain.UnitInfo{
			ID:            domain.Intern(u.ID),
			Name:          u.Name,
			Language:      u.Language,
			DocumentCount: len(u.Documents),
		}
		if err := builder.AddUnit(info); err != nil {
			return nil, zerr.Wrap(err, "failed to add unit to graph")
		}
	}

	refs := make([][]string, len(units))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxReferenceFetches)
	for i, u := range units {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r, err := snapshot.References(u.ID)
			if err != nil {
				return zerr.With(err, "unit_id", u.ID)
			}
			refs[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, zerr.Wrap(err, "failed to resolve unit references")
	}

	for i, u := range units {
		from := domain.Intern(u.ID)
		for _, target := range refs[i] {
			err := builder.AddReference(from, domain.Intern(target))
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrSelfReference):
				s.logger.Warn(fmt.Sprintf("unit %s references itself, edge skipped", u.ID))
			case errors.Is(err, domain.ErrUnitNotFound):
				s.logger.Warn(fmt.Sprintf("unit %s references unknown unit %s, edge skipped", u.ID, target))
			default:
				return nil, zerr.Wrap(err, "failed to add reference to graph")
			}
		}
	}

	return builder.Build(), nil
}
