package subsolver

import (
	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// commodityState is one commodity's private overlay on the shared
// LightGraph: a disabled-arc mask plus the push stack that produced it,
// and the most recent solved path.
type commodityState struct {
	excluded []bool
	stack    []int // arc indices pushed, in push order, for pop to reverse

	feasible bool
	arcs     []int
	cost     float64
}

// PrimalPool holds K independent shortest-path instances over one shared
// LightGraph (spec §4.2): each commodity gets its own disabled-arc mask so
// a PRIMAL branch on commodity k never affects commodity k'.
type PrimalPool struct {
	g   *graph.LightGraph
	p   *problem.Problem
	com []commodityState
}

// NewPrimalPool allocates K empty masks, one per commodity in p.
func NewPrimalPool(g *graph.LightGraph, p *problem.Problem) *PrimalPool {
	pool := &PrimalPool{g: g, p: p, com: make([]commodityState, p.NumCommodities())}
	for k := range pool.com {
		pool.com[k].excluded = make([]bool, g.NumArcs())
	}
	return pool
}

// Push disables arc a in commodity k's replica (spec §4.2 push_primal).
func (pp *PrimalPool) Push(k, a int) {
	pp.com[k].excluded[a] = true
	pp.com[k].stack = append(pp.com[k].stack, a)
}

// Pop re-enables the most recently pushed arc for commodity k (pop_primal).
func (pp *PrimalPool) Pop(k int) {
	s := &pp.com[k]
	n := len(s.stack)
	if n == 0 {
		return
	}
	a := s.stack[n-1]
	s.stack = s.stack[:n-1]
	s.excluded[a] = false
}

// Clear restores commodity k's mask to empty (used by EnterNode).
func (pp *PrimalPool) Clear(k int) {
	s := &pp.com[k]
	for _, a := range s.stack {
		s.excluded[a] = false
	}
	s.stack = nil
}

// ClearAll restores every commodity's mask to empty.
func (pp *PrimalPool) ClearAll() {
	for k := range pp.com {
		pp.Clear(k)
	}
}

// Solve runs commodity k's shortest path under its current mask and the
// shared toll overlay. Returns problem.ErrPathUnreachable when no oₖ→dₖ
// path exists under the mask (and also when the graph rejects the search
// for a negative effective arc weight), nil otherwise, per spec §4.2's
// "solve_primal(k) → feasible?" contract.
func (pp *PrimalPool) Solve(k int) error {
	s := &pp.com[k]
	com := pp.p.Commodities[k]
	arcs, err := pp.g.ShortestPathMasked(com.Origin, com.Destination, s.excluded)
	if err != nil {
		s.feasible = false
		return problem.ErrPathUnreachable
	}
	s.feasible = true
	s.arcs = arcs
	s.cost = pp.g.PathCost(arcs, true)
	return nil
}

// Feasible reports whether commodity k's most recent Solve succeeded.
func (pp *PrimalPool) Feasible(k int) bool { return pp.com[k].feasible }

// Cost returns commodity k's most recently solved path cost (including
// tolls), spec §4.2's get_primal_cost.
func (pp *PrimalPool) Cost(k int) float64 { return pp.com[k].cost }

// Arcs returns commodity k's most recently solved arc sequence, spec
// §4.2's get_primal_arcs.
func (pp *PrimalPool) Arcs(k int) []int { return pp.com[k].arcs }
