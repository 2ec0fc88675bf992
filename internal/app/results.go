package app

import "time"

// ResumeType says how a resume decided to re-analyze.
type ResumeType string

const (
	// ResumeIncremental invalidates only the units affected by tracked changes.
	ResumeIncremental ResumeType = "incremental"
	// ResumeFull discards every cached artifact of the session.
	ResumeFull ResumeType = "full"
)

// Impact classifies how much of the workspace a set of changes touches.
type Impact string

const (
	// ImpactLow means less than 10% of units are affected.
	ImpactLow Impact = "low"
	// ImpactMedium means less than 40% of units are affected.
	ImpactMedium Impact = "medium"
	// ImpactHigh means 40% or more of units are affected.
	ImpactHigh Impact = "high"
)

// PauseResult reports the outcome of pausing a session.
type PauseResult struct {
	Success       bool
	WatchingFiles bool
	PausedAt      time.Time
}

// ResumeResult reports what a resume invalidated.
type ResumeResult struct {
	ResumeType    ResumeType
	ChangedFiles  int
	AffectedUnits int
	FileList      []string
	UnitList      []string
}

// PreviewResult is a read-only estimate of what resuming now would cost.
type PreviewResult struct {
	IsPaused              bool
	PausedAt              time.Time
	PausedDurationMinutes int
	ChangedFileCount      int
	ChangedFiles          []string
	AffectedUnitCount     int
	AffectedUnits         []string
	Impact                Impact
}

// GraphStats summarizes the shape of a dependency graph.
type GraphStats struct {
	UnitCount int
	EdgeCount int
}

// UnitSummary is one unit's row in a graph report.
type UnitSummary struct {
	ID             string
	Name           string
	Language       string
	DocumentCount  int
	ReferenceCount int
}

// GraphReport describes the session's dependency graph.
type GraphReport struct {
	Stats       GraphStats
	LeafUnitIDs []string
	RootUnitIDs []string
	Units       []UnitSummary
}

// ImpactReport lists the units a change to one unit would invalidate.
type ImpactReport struct {
	TargetUnit        string
	AffectedUnitCount int
	AffectedUnits     []string
}
