// Package bnb implements the branch-and-bound scheduler (spec §4.3–§4.9):
// Node, Lineage, Queue, ImprovementHistory, the Engine itself, the default
// Heuristic wiring, and Reporter.
package bnb

import "github.com/veyra-labs/netprice/problem"

// Node is a search-tree node (spec §3/§4.3). Children are created by
// Engine.updateBound from a parent plus a branching decision; the root is
// built by Engine.updateRootBound.
type Node struct {
	ID       int
	ParentID int
	Depth    int

	Bound     float64
	DualObj   float64
	PrimalObjs []float64 // per commodity k
	Arcs       [][]int   // per commodity k, arc sequence of its current path
	Tolls      []float64 // indexed by graph arc index, 0 on toll-free arcs

	SlackMap   [][]bool // [k][a]
	Candidates []problem.Candidate

	// LineageIdx indexes into the engine's Lineage arena; -1 for the root
	// and for synthetic heuristic solution nodes (spec §4.8).
	LineageIdx int
}

// IsSolution reports whether n has no remaining branching candidates
// (spec §3: "A node is a solution iff its candidate list is empty").
func (n *Node) IsSolution() bool { return len(n.Candidates) == 0 }

// Clone deep-copies the slices that the engine mutates after installing a
// node as the incumbent, so later search-tree activity cannot alias into
// the incumbent's state (spec §4.4 add_new_solution: "replace incumbent
// with node.clone()").
func (n *Node) Clone() *Node {
	c := *n
	c.PrimalObjs = append([]float64(nil), n.PrimalObjs...)
	c.Tolls = append([]float64(nil), n.Tolls...)
	c.Arcs = make([][]int, len(n.Arcs))
	for k, a := range n.Arcs {
		c.Arcs[k] = append([]int(nil), a...)
	}
	c.SlackMap = make([][]bool, len(n.SlackMap))
	for k, s := range n.SlackMap {
		c.SlackMap[k] = append([]bool(nil), s...)
	}
	c.Candidates = append([]problem.Candidate(nil), n.Candidates...)
	return &c
}
