// Package subsolver implements LPSubsolverPair (spec §4.2): the primal
// per-commodity shortest-path pool and the shared dual LP, pushed and
// popped in lockstep with the branch-and-bound search tree.
package subsolver

import (
	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// Step is one lineage entry as the bnb package's arena stores it: a
// branching Candidate plus the Direction it was branched in. Pair has no
// dependency on bnb.Lineage itself (that would be circular); the engine
// flattens its lineage arena into a []Step before calling EnterNode.
type Step struct {
	Candidate problem.Candidate
	Direction problem.Direction
}

// Pair wires a PrimalPool and a DualLP over the same graph and problem,
// exposing the combined push/pop/solve surface the bnb engine drives.
type Pair struct {
	Graph  *graph.LightGraph
	Primal *PrimalPool
	Dual   *DualLP
}

// NewPair constructs the default subsolver wiring for g and p.
func NewPair(g *graph.LightGraph, p *problem.Problem) *Pair {
	return &Pair{
		Graph:  g,
		Primal: NewPrimalPool(g, p),
		Dual:   NewDualLP(g, p),
	}
}

// EnterNode restores the subsolver's state to exactly the lineage path
// (root to leaf): clears every commodity's primal mask and the dual's
// forced-equality set, then replays each step's push in order. It does
// not itself resolve any LP — the caller (bnb.Engine) re-solves whatever
// it needs afterward, since a freshly created child already carries the
// LP outputs computed by Engine.updateBound at creation time.
func (pr *Pair) EnterNode(path []Step) {
	pr.Primal.ClearAll()
	pr.Dual.ClearEqual()
	for _, s := range path {
		if s.Direction == problem.PRIMAL {
			pr.Primal.Push(s.Candidate.K, s.Candidate.A)
		} else {
			pr.Dual.PushEqual(s.Candidate.K, s.Candidate.A)
		}
	}
}

// SolveAllPrimals solves every commodity's shortest path under the
// current masks. Returns the index of the first infeasible commodity and
// problem.ErrPathUnreachable, or -1, nil on full success.
func (pr *Pair) SolveAllPrimals() (int, error) {
	for k := range pr.Primal.com {
		if err := pr.Primal.Solve(k); err != nil {
			return k, err
		}
	}
	return -1, nil
}

// NumArcs is a convenience forward to the shared graph.
func (pr *Pair) NumArcs() int { return pr.Graph.NumArcs() }
