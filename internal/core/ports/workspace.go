// Package ports defines the interfaces between the engine and its
// collaborators: the workspace model, the artifact store, the filesystem
// watcher, logging and tracing.
package ports

import "context"

// UnitDescriptor is one compilation unit as enumerated by a workspace
// snapshot: a buildable grouping of source documents with declared
// references to other units.
type UnitDescriptor struct {
	ID        string
	Name      string
	Language  string
	Documents []string
}

// WorkspaceSnapshot is an immutable view of all compilation units and their
// documents at one point in time. Implementations must not change after
// Snapshot returns; graph rebuilds take a fresh snapshot instead.
type WorkspaceSnapshot interface {
	// Units enumerates all compilation units in deterministic order.
	Units() []UnitDescriptor

	// References lists the unit ids the given unit declares references to.
	References(unitID string) ([]string, error)

	// OwningUnits resolves which unit(s) contain the given file path.
	// An empty result means the file maps to no unit.
	OwningUnits(path string) []string

	// Fingerprint is a stable hash of the snapshot's units and references,
	// usable to detect whether a rebuild produced a structurally different graph.
	Fingerprint() uint64
}

// WorkspaceModel is the opaque compiler/workspace collaborator. It parses
// and type-checks source; the engine only ever asks it for snapshots.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type WorkspaceModel interface {
	// Snapshot produces an immutable snapshot of the workspace rooted at the
	// given path.
	Snapshot(ctx context.Context, root string) (WorkspaceSnapshot, error)
}
