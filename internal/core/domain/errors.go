package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is not known to the registry.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session whose id is already registered.
	ErrSessionExists = errors.New("session already exists")

	// ErrInvalidSessionState is returned for lifecycle transitions that are not
	// legal from the session's current state, e.g. pausing an already paused
	// session or resuming an active one.
	ErrInvalidSessionState = errors.New("operation not valid in current session state")

	// ErrGraphUnavailable is returned when an operation needs a dependency graph
	// but none has ever been built for the session.
	ErrGraphUnavailable = errors.New("no dependency graph has been built for session")

	// ErrCycleDetected is returned when the unit reference graph contains a cycle.
	// The acyclicity invariant should make this unreachable; an occurrence is an
	// internal bug, not a user error.
	ErrCycleDetected = errors.New("cycle detected in unit references")

	// ErrUnitNotFound is returned when a unit id is not present in the graph.
	ErrUnitNotFound = errors.New("unit not found in dependency graph")

	// ErrDuplicateUnit is returned when a snapshot enumerates the same unit id twice.
	ErrDuplicateUnit = errors.New("duplicate unit id")

	// ErrSelfReference is returned when a unit declares a reference to itself.
	ErrSelfReference = errors.New("unit cannot reference itself")

	// ErrWatchSetup is returned when file watching could not be started.
	// Pause treats this as a warning: the session still pauses, unwatched.
	ErrWatchSetup = errors.New("failed to start file watching")

	// ErrSnapshotFailed is returned when the workspace model cannot produce a snapshot.
	ErrSnapshotFailed = errors.New("failed to snapshot workspace")

	// ErrManifestNotFound is returned when no workspace manifest is found from cwd upward.
	ErrManifestNotFound = errors.New("could not find workspace manifest")

	// ErrManifestReadFailed is returned when the workspace manifest cannot be read.
	ErrManifestReadFailed = errors.New("failed to read workspace manifest")

	// ErrManifestParseFailed is returned when the workspace manifest cannot be parsed.
	ErrManifestParseFailed = errors.New("failed to parse workspace manifest")

	// ErrInvalidUnitID is returned when a manifest unit id contains invalid characters.
	ErrInvalidUnitID = errors.New("unit id can only contain alphanumeric characters, dots, hyphens and underscores")
)
