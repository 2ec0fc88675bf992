package domain

// UnitInfo describes one compilation unit node in a dependency graph.
type UnitInfo struct {
	ID             InternedString
	Name           string
	Language       string
	DocumentCount  int
	ReferenceCount int
}
