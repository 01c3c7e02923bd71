package bnb

import (
	"github.com/veyra-labs/netprice/problem"
	"github.com/veyra-labs/netprice/subsolver"
)

// lineageEntry is one (candidate, direction) decision plus its parent's
// arena index (spec §9 "Lineage sharing": "an arena of LineageEntry
// records with integer indices and a parent-index field"). No cycles
// exist: a parent's index is always smaller than its children's, since
// entries are only ever appended.
type lineageEntry struct {
	Candidate problem.Candidate
	Direction problem.Direction
	Parent    int // -1 for a root-level decision
}

// Lineage is the persistent arena backing every Node's ancestry. It lives
// for the lifetime of the engine's search; nodes hold an index into it
// rather than a pointer chain, so siblings share their parent prefix for
// free and nothing needs reference counting.
type Lineage struct {
	entries []lineageEntry
}

// NewLineage returns an empty arena.
func NewLineage() *Lineage { return &Lineage{} }

// Add appends a new entry under parent (-1 for a root child) and returns
// its arena index.
func (l *Lineage) Add(parent int, c problem.Candidate, d problem.Direction) int {
	l.entries = append(l.entries, lineageEntry{Candidate: c, Direction: d, Parent: parent})
	return len(l.entries) - 1
}

// Depth walks the parent chain from idx to the root, counting steps.
// idx == -1 (the root itself) has depth 0.
func (l *Lineage) Depth(idx int) int {
	d := 0
	for idx != -1 {
		idx = l.entries[idx].Parent
		d++
	}
	return d
}

// Path returns the full lineage from root to idx, in root-to-leaf order,
// as the []subsolver.Step EnterNode expects (spec §4.6
// "get_full_lineage() walks parents, reverses, and returns an ordered
// list root→leaf").
func (l *Lineage) Path(idx int) []subsolver.Step {
	var rev []subsolver.Step
	for idx != -1 {
		e := l.entries[idx]
		rev = append(rev, subsolver.Step{Candidate: e.Candidate, Direction: e.Direction})
		idx = e.Parent
	}
	path := make([]subsolver.Step, len(rev))
	for i, s := range rev {
		path[len(rev)-1-i] = s
	}
	return path
}
