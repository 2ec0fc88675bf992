// Package domain contains the core domain models for sessions, compilation
// units and the unit dependency graph.
package domain

import (
	"slices"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// DependencyGraph is an immutable snapshot of the compilation-unit
// dependency graph for one session. Forward edges point from a unit to the
// units it depends on; the reverse index is the exact inverse. A graph is
// built once through a GraphBuilder and never mutated afterwards; refreshes
// build a new value and swap the session's pointer wholesale.
type DependencyGraph struct {
	units     map[InternedString]UnitInfo
	order     []InternedString // original enumeration order
	forward   map[InternedString][]InternedString
	reverse   map[InternedString][]InternedString
	edgeCount int

	topo    []InternedString
	topoErr error
}

// GraphBuilder accumulates units and references and produces an immutable
// DependencyGraph.
type GraphBuilder struct {
	units map[InternedString]UnitInfo
	order []InternedString
	refs  map[InternedString][]InternedString
	seen  map[[2]InternedString]struct{}
}

// NewGraphBuilder creates an empty GraphBuilder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		units: make(map[InternedString]UnitInfo),
		refs:  make(map[InternedString][]InternedString),
		seen:  make(map[[2]InternedString]struct{}),
	}
}

// AddUnit adds a unit node. Enumeration order is preserved and later used
// for deterministic tie-breaking in the compilation order.
func (b *GraphBuilder) AddUnit(info UnitInfo) error {
	if _, exists := b.units[info.ID]; exists {
		return zerr.With(ErrDuplicateUnit, "unit_id", info.ID.String())
	}
	b.units[info.ID] = info
	b.order = append(b.order, info.ID)
	return nil
}

// AddReference declares that from depends on to. Both units must already be
// added; self references are rejected. Duplicate declarations collapse to a
// single edge.
func (b *GraphBuilder) AddReference(from, to InternedString) error {
	if from == to {
		return zerr.With(ErrSelfReference, "unit_id", from.String())
	}
	if _, ok := b.units[from]; !ok {
		return zerr.With(ErrUnitNotFound, "unit_id", from.String())
	}
	if _, ok := b.units[to]; !ok {
		return zerr.With(ErrUnitNotFound, "unit_id", to.String())
	}
	key := [2]InternedString{from, to}
	if _, dup := b.seen[key]; dup {
		return nil
	}
	b.seen[key] = struct{}{}
	b.refs[from] = append(b.refs[from], to)
	return nil
}

// Build produces the immutable graph: forward adjacency, derived reverse
// index, per-unit reference counts, and the precomputed compilation order.
// Building always succeeds; a cycle is recorded and surfaced only by
// CompilationOrder, so lookups on a damaged graph keep working.
func (b *GraphBuilder) Build() *DependencyGraph {
	g := &DependencyGraph{
		units:   make(map[InternedString]UnitInfo, len(b.units)),
		order:   slices.Clone(b.order),
		forward: make(map[InternedString][]InternedString, len(b.refs)),
		reverse: make(map[InternedString][]InternedString),
	}

	// Copy forward edges and derive the reverse index by inversion,
	// iterating in enumeration order so both sides are deterministic.
	for _, from := range b.order {
		deps := b.refs[from]
		if len(deps) == 0 {
			continue
		}
		g.forward[from] = slices.Clone(deps)
		g.edgeCount += len(deps)
		for _, to := range deps {
			g.reverse[to] = append(g.reverse[to], from)
		}
	}

	for _, id := range b.order {
		info := b.units[id]
		info.ReferenceCount = len(g.forward[id])
		g.units[id] = info
	}

	g.topo, g.topoErr = g.computeOrder()
	return g
}

// UnitCount returns the number of units in the graph.
func (g *DependencyGraph) UnitCount() int { return len(g.order) }

// EdgeCount returns the number of dependency edges in the graph.
func (g *DependencyGraph) EdgeCount() int { return g.edgeCount }

// Unit returns the info for one unit id.
func (g *DependencyGraph) Unit(id InternedString) (UnitInfo, bool) {
	info, ok := g.units[id]
	return info, ok
}

// Units returns all unit infos in enumeration order.
func (g *DependencyGraph) Units() []UnitInfo {
	res := make([]UnitInfo, 0, len(g.order))
	for _, id := range g.order {
		res = append(res, g.units[id])
	}
	return res
}

// Contains reports whether the unit id is present in the graph.
func (g *DependencyGraph) Contains(id InternedString) bool {
	_, ok := g.units[id]
	return ok
}

// DirectDependencies returns the units that id depends on.
func (g *DependencyGraph) DirectDependencies(id InternedString) ([]InternedString, error) {
	if !g.Contains(id) {
		return nil, zerr.With(ErrUnitNotFound, "unit_id", id.String())
	}
	return slices.Clone(g.forward[id]), nil
}

// DirectDependents returns the units that depend on id.
func (g *DependencyGraph) DirectDependents(id InternedString) ([]InternedString, error) {
	if !g.Contains(id) {
		return nil, zerr.With(ErrUnitNotFound, "unit_id", id.String())
	}
	return slices.Clone(g.reverse[id]), nil
}

// AffectedUnits computes the transitive closure of dependents of the changed
// units, including the changed units themselves. Ids absent from the graph
// (e.g. units removed since the last refresh) are returned in skipped rather
// than treated as fatal. An empty input yields an empty result, never "all
// units". The affected slice is ordered by original enumeration order.
func (g *DependencyGraph) AffectedUnits(changed []InternedString) (affected, skipped []InternedString) {
	visited := make(map[InternedString]struct{})
	queue := make([]InternedString, 0, len(changed))

	for _, id := range changed {
		if !g.Contains(id) {
			skipped = append(skipped, id)
			continue
		}
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, dependent := range g.reverse[u] {
			if _, ok := visited[dependent]; ok {
				continue
			}
			visited[dependent] = struct{}{}
			queue = append(queue, dependent)
		}
	}

	affected = make([]InternedString, 0, len(visited))
	for _, id := range g.order {
		if _, ok := visited[id]; ok {
			affected = append(affected, id)
		}
	}
	return affected, skipped
}

// LeafUnits returns units with no outgoing edges, i.e. no dependencies.
func (g *DependencyGraph) LeafUnits() []InternedString {
	res := make([]InternedString, 0)
	for _, id := range g.order {
		if len(g.forward[id]) == 0 {
			res = append(res, id)
		}
	}
	return res
}

// RootUnits returns units with no incoming edges, i.e. nothing depends on them.
func (g *DependencyGraph) RootUnits() []InternedString {
	res := make([]InternedString, 0)
	for _, id := range g.order {
		if len(g.reverse[id]) == 0 {
			res = append(res, id)
		}
	}
	return res
}

// CompilationOrder returns a topological order of the units: if a depends on
// b, b precedes a. Ties are broken by original enumeration order so the
// result is deterministic. Returns ErrCycleDetected if the acyclicity
// invariant was violated when the graph was built.
func (g *DependencyGraph) CompilationOrder() ([]InternedString, error) {
	if g.topoErr != nil {
		return nil, g.topoErr
	}
	return slices.Clone(g.topo), nil
}

// computeOrder runs Kahn's algorithm over the forward adjacency. The ready
// set is kept sorted by enumeration index so ties resolve deterministically.
func (g *DependencyGraph) computeOrder() ([]InternedString, error) {
	index := make(map[InternedString]int, len(g.order))
	for i, id := range g.order {
		index[id] = i
	}

	remaining := make(map[InternedString]int, len(g.order))
	ready := make([]InternedString, 0)
	for _, id := range g.order {
		remaining[id] = len(g.forward[id])
		if remaining[id] == 0 {
			ready = append(ready, id)
		}
	}

	out := make([]InternedString, 0, len(g.order))
	for len(ready) > 0 {
		u := ready[0]
		ready = ready[1:]
		out = append(out, u)

		for _, dependent := range g.reverse[u] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				pos := sort.Search(len(ready), func(i int) bool {
					return index[ready[i]] > index[dependent]
				})
				ready = slices.Insert(ready, pos, dependent)
			}
		}
	}

	if len(out) != len(g.order) {
		return nil, g.buildCycleError(remaining)
	}
	return out, nil
}

// buildCycleError walks the forward edges among unresolved units to recover
// one concrete cycle for the error metadata.
func (g *DependencyGraph) buildCycleError(remaining map[InternedString]int) error {
	var start InternedString
	found := false
	for _, id := range g.order {
		if remaining[id] > 0 {
			start = id
			found = true
			break
		}
	}
	if !found {
		return ErrCycleDetected
	}

	// Follow unresolved dependencies until a node repeats.
	seen := make(map[InternedString]int)
	var path []InternedString
	cur := start
	for {
		if at, ok := seen[cur]; ok {
			path = append(path[at:], cur)
			break
		}
		seen[cur] = len(path)
		path = append(path, cur)

		next := cur
		advanced := false
		for _, dep := range g.forward[cur] {
			if remaining[dep] > 0 {
				next = dep
				advanced = true
				break
			}
		}
		if !advanced {
			// Should not happen: every unresolved node has an unresolved dep.
			break
		}
		cur = next
	}

	return zerr.With(ErrCycleDetected, "cycle", strings.Join(Strings(path), " -> "))
}
