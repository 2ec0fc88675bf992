// Package app implements the orchestration layer for ripple: session
// lifecycle, pause/resume with change tracking, and graph queries. It
// coordinates the engine services and owns the ordering rule that makes
// failures safe: all side effects happen before the state transition, so a
// failed operation leaves the session exactly as it was.
package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/ripple/internal/engine/graph"
	"go.trai.ch/ripple/internal/engine/invalidate"
	"go.trai.ch/ripple/internal/engine/registry"
	"go.trai.ch/ripple/internal/engine/tracker"
	"go.trai.ch/zerr"
)

// App is the embeddable orchestrator. All methods are safe for concurrent
// use; operations on the same session serialize through the registry guard.
type App struct {
	registry    *registry.Registry
	graphs      *graph.Service
	invalidator *invalidate.Service
	tracker     *tracker.Tracker
	model       ports.WorkspaceModel
	logger      ports.Logger
	tracer      ports.Tracer
}

// New creates a new App instance.
func New(
	reg *registry.Registry,
	graphs *graph.Service,
	invalidator *invalidate.Service,
	track *tracker.Tracker,
	model ports.WorkspaceModel,
	log ports.Logger,
	trace ports.Tracer,
) *App {
	return &App{
		registry:    reg,
		graphs:      graphs,
		invalidator: invalidator,
		tracker:     track,
		model:       model,
		logger:      log,
		tracer:      trace,
	}
}

// CreateSession registers a new session for the workspace rooted at the
// given path. The session is active immediately; its dependency graph is
// built lazily on first use.
func (a *App) CreateSession(ctx context.Context, id, root string) (domain.Session, error) {
	_, span := a.tracer.Start(ctx, "session.create")
	defer span.End()
	span.SetAttribute("session_id", id)

	session, err := a.registry.Create(id, root)
	if err != nil {
		span.RecordError(err)
		return domain.Session{}, err
	}
	a.logger.Info(fmt.Sprintf("session %s created for %s", id, root))
	return session, nil
}

// CloseSession disposes the session: stops any file watching, drops the
// graph and evicts every cached artifact.
func (a *App) CloseSession(ctx context.Context, id string) error {
	_, span := a.tracer.Start(ctx, "session.close")
	defer span.End()
	span.SetAttribute("session_id", id)

	unlock, err := a.registry.Guard(id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer unlock()

	a.tracker.StopWatching(id)
	a.graphs.Drop(id)
	evicted := a.invalidator.InvalidateAll(id)

	if _, err := a.registry.Remove(id); err != nil {
		span.RecordError(err)
		return err
	}
	a.logger.Info(fmt.Sprintf("session %s closed, %d artifact(s) evicted", id, evicted))
	return nil
}

// Pause transitions the session to paused so external tools can edit the
// workspace. With watchFiles, changes are tracked while paused; a watch
// setup failure degrades to an unwatched pause rather than failing, because
// resume falls back to a full rebuild anyway.
func (a *App) Pause(ctx context.Context, id string, watchFiles bool) (PauseResult, error) {
	ctx, span := a.tracer.Start(ctx, "session.pause")
	defer span.End()
	span.SetAttribute("session_id", id)
	span.SetAttribute("watch_files", watchFiles)

	unlock, err := a.registry.Guard(id)
	if err != nil {
		span.RecordError(err)
		return PauseResult{}, err
	}
	defer unlock()

	session, err := a.registry.Snapshot(id)
	if err != nil {
		span.RecordError(err)
		return PauseResult{}, err
	}
	if session.State != domain.SessionActive {
		err := zerr.With(domain.ErrInvalidSessionState, "state", string(session.State))
		span.RecordError(err)
		return PauseResult{}, zerr.With(err, "session_id", id)
	}

	watching := false
	if watchFiles {
		if err := a.tracker.StartWatching(ctx, id, session.Root, nil); err != nil {
			a.logger.Warn(fmt.Sprintf("could not watch files for session %s, resume will rebuild fully: %s",
				id, err.Error()))
			span.RecordError(err)
		} else {
			watching = true
		}
	}

	paused, err := a.registry.MarkPaused(id)
	if err != nil {
		a.tracker.StopWatching(id)
		span.RecordError(err)
		return PauseResult{}, err
	}

	a.logger.Info(fmt.Sprintf("session %s paused (watching=%t)", id, watching))
	return PauseResult{
		Success:       true,
		WatchingFiles: watching,
		PausedAt:      *paused.PausedAt,
	}, nil
}

// Resume transitions the session back to active and invalidates stale
// artifacts. Incremental resume scopes invalidation to the units affected by
// files changed while paused; forceFullRebuild evicts everything. The state
// transition happens last: a failure mid-resume leaves the session paused
// with tracking intact, so resume can simply be retried.
func (a *App) Resume(ctx context.Context, id string, forceFullRebuild bool) (ResumeResult, error) {
	ctx, span := a.tracer.Start(ctx, "session.resume")
	defer span.End()
	span.SetAttribute("session_id", id)
	span.SetAttribute("force_full_rebuild", forceFullRebuild)

	unlock, err := a.registry.Guard(id)
	if err != nil {
		span.RecordError(err)
		return ResumeResult{}, err
	}
	defer unlock()

	session, err := a.registry.Snapshot(id)
	if err != nil {
		span.RecordError(err)
		return ResumeResult{}, err
	}
	if !session.IsPaused() {
		err := zerr.With(domain.ErrInvalidSessionState, "state", string(session.State))
		span.RecordError(err)
		return ResumeResult{}, zerr.With(err, "session_id", id)
	}

	g, err := a.graphs.Current(id)
	if err != nil {
		span.RecordError(err)
		return ResumeResult{}, err
	}

	changed := a.tracker.Changes(id, *session.PausedAt)
	span.SetAttribute("changed_files", len(changed))

	result := ResumeResult{ChangedFiles: len(changed), FileList: changed}
	if forceFullRebuild {
		a.invalidator.InvalidateAll(id)
		all := make([]string, 0, g.UnitCount())
		for _, info := range g.Units() {
			all = append(all, info.ID.String())
		}
		result.ResumeType = ResumeFull
		result.AffectedUnits = len(all)
		result.UnitList = all
	} else {
		affected, err := a.affectedByFiles(ctx, session, g, changed)
		if err != nil {
			span.RecordError(err)
			return ResumeResult{}, err
		}
		a.invalidator.InvalidateUnits(id, affected)
		result.ResumeType = ResumeIncremental
		result.AffectedUnits = len(affected)
		result.UnitList = domain.Strings(affected)
	}

	a.tracker.StopWatching(id)

	if _, err := a.registry.MarkResumed(id); err != nil {
		span.RecordError(err)
		return ResumeResult{}, err
	}

	a.logger.Info(fmt.Sprintf("session %s resumed (%s): %d changed file(s), %d unit(s) invalidated",
		id, result.ResumeType, result.ChangedFiles, result.AffectedUnits))
	return result, nil
}

// PreviewPauseChanges reports what resuming now would invalidate, without
// changing anything. A session that is not paused previews as a no-op.
// Previews hold the session guard like Pause and Resume do: a preview racing
// a resume must see the session either fully paused or fully resumed, never
// the tracker mid-teardown.
func (a *App) PreviewPauseChanges(ctx context.Context, id string) (PreviewResult, error) {
	ctx, span := a.tracer.Start(ctx, "session.preview")
	defer span.End()
	span.SetAttribute("session_id", id)

	unlock, err := a.registry.Guard(id)
	if err != nil {
		span.RecordError(err)
		return PreviewResult{}, err
	}
	defer unlock()

	session, err := a.registry.Snapshot(id)
	if err != nil {
		span.RecordError(err)
		return PreviewResult{}, err
	}
	if !session.IsPaused() {
		return PreviewResult{IsPaused: false, Impact: ImpactLow}, nil
	}

	g, err := a.graphs.Current(id)
	if err != nil {
		span.RecordError(err)
		return PreviewResult{}, err
	}

	changed := a.tracker.Changes(id, *session.PausedAt)
	affected, err := a.affectedByFiles(ctx, session, g, changed)
	if err != nil {
		span.RecordError(err)
		return PreviewResult{}, err
	}

	return PreviewResult{
		IsPaused:              true,
		PausedAt:              *session.PausedAt,
		PausedDurationMinutes: int(time.Since(*session.PausedAt).Minutes()),
		ChangedFileCount:      len(changed),
		ChangedFiles:          changed,
		AffectedUnitCount:     len(affected),
		AffectedUnits:         domain.Strings(affected),
		Impact:                classifyImpact(len(affected), g.UnitCount()),
	}, nil
}

// RefreshSession rebuilds the session's dependency graph from a fresh
// workspace snapshot.
func (a *App) RefreshSession(ctx context.Context, id string) error {
	ctx, span := a.tracer.Start(ctx, "session.refresh")
	defer span.End()
	span.SetAttribute("session_id", id)

	session, err := a.registry.Snapshot(id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	_ = a.registry.Touch(id)

	if _, err := a.graphs.Refresh(ctx, id, session.Root); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// GetDependencyGraph returns the session's graph report, building the graph
// on first use.
func (a *App) GetDependencyGraph(ctx context.Context, id string) (GraphReport, error) {
	ctx, span := a.tracer.Start(ctx, "graph.report")
	defer span.End()
	span.SetAttribute("session_id", id)

	g, err := a.graphFor(ctx, id)
	if err != nil {
		span.RecordError(err)
		return GraphReport{}, err
	}

	units := g.Units()
	report := GraphReport{
		Stats:       GraphStats{UnitCount: g.UnitCount(), EdgeCount: g.EdgeCount()},
		LeafUnitIDs: domain.Strings(g.LeafUnits()),
		RootUnitIDs: domain.Strings(g.RootUnits()),
		Units:       make([]UnitSummary, 0, len(units)),
	}
	for _, info := range units {
		report.Units = append(report.Units, UnitSummary{
			ID:             info.ID.String(),
			Name:           info.Name,
			Language:       info.Language,
			DocumentCount:  info.DocumentCount,
			ReferenceCount: info.ReferenceCount,
		})
	}
	return report, nil
}

// GetImpactAnalysis reports which units changing the given unit would
// invalidate, the unit itself included.
func (a *App) GetImpactAnalysis(ctx context.Context, id, unitID string) (ImpactReport, error) {
	ctx, span := a.tracer.Start(ctx, "graph.impact")
	defer span.End()
	span.SetAttribute("session_id", id)
	span.SetAttribute("unit_id", unitID)

	g, err := a.graphFor(ctx, id)
	if err != nil {
		span.RecordError(err)
		return ImpactReport{}, err
	}

	target := domain.Intern(unitID)
	if !g.Contains(target) {
		err := zerr.With(domain.ErrUnitNotFound, "unit_id", unitID)
		span.RecordError(err)
		return ImpactReport{}, err
	}

	affected, _ := g.AffectedUnits([]domain.InternedString{target})
	return ImpactReport{
		TargetUnit:        unitID,
		AffectedUnitCount: len(affected),
		AffectedUnits:     domain.Strings(affected),
	}, nil
}

// GetCompilationOrder returns the units in dependency order: every unit
// comes after all units it depends on.
func (a *App) GetCompilationOrder(ctx context.Context, id string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "graph.order")
	defer span.End()
	span.SetAttribute("session_id", id)

	g, err := a.graphFor(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, err := g.CompilationOrder()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return domain.Strings(order), nil
}

// StartIdleReaper runs background disposal of idle sessions until the
// context is cancelled. Paused sessions are never reaped.
func (a *App) StartIdleReaper(ctx context.Context) {
	a.registry.StartReaper(ctx, func(id string) {
		if err := a.CloseSession(ctx, id); err != nil {
			a.logger.Error(zerr.Wrap(err, fmt.Sprintf("failed to dispose idle session %s", id)))
		}
	})
}

// graphFor resolves the session's graph, building it lazily, and counts the
// access against the idle timeout.
func (a *App) graphFor(ctx context.Context, id string) (*domain.DependencyGraph, error) {
	session, err := a.registry.Snapshot(id)
	if err != nil {
		return nil, err
	}
	_ = a.registry.Touch(id)
	return a.graphs.GraphFor(ctx, id, session.Root)
}

// affectedByFiles maps changed file paths to their owning units and expands
// to the transitive dependent closure. Files owned by no unit and units that
// vanished from the graph are skipped with a warning; both are expected
// after workspace edits, not errors.
func (a *App) affectedByFiles(ctx context.Context, session domain.Session, g *domain.DependencyGraph, files []string) ([]domain.InternedString, error) {
	if len(files) == 0 {
		return nil, nil
	}

	snapshot, err := a.model.Snapshot(ctx, session.Root)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSnapshotFailed.Error())
	}

	seen := make(map[domain.InternedString]struct{})
	var changedUnits []domain.InternedString
	for _, file := range files {
		owners := snapshot.OwningUnits(file)
		if len(owners) == 0 {
			a.logger.Warn(fmt.Sprintf("changed file %s has no owning unit, skipped", file))
			continue
		}
		for _, owner := range owners {
			id := domain.Intern(owner)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			changedUnits = append(changedUnits, id)
		}
	}

	affected, skipped := g.AffectedUnits(changedUnits)
	for _, id := range skipped {
		a.logger.Warn(fmt.Sprintf("unit %s is no longer in the dependency graph, skipped", id.String()))
	}
	return affected, nil
}

// classifyImpact buckets the affected-to-total ratio.
func classifyImpact(affected, total int) Impact {
	if total == 0 || affected == 0 {
		return ImpactLow
	}
	ratio := float64(affected) / float64(total)
	switch {
	case ratio < 0.1:
		return ImpactLow
	case ratio < 0.4:
		return ImpactMedium
	default:
		return ImpactHigh
	}
}
