package bnb

import (
	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
	"github.com/veyra-labs/netprice/subsolver"
)

// tieBreakFactor is the deterministic epsilon the heuristic's primal pass
// scales tolls by before computing shortest paths, so that a follower
// indifferent between a tolled and toll-free route of equal total cost
// prefers the tolled one (spec §4.8 "Supplemented Features": grounded on
// original_source/netpricing/utilities/follower_light_solver.cpp).
const tieBreakFactor = 0.9999

// HeuristicResult is the feasible solution a Heuristic call produces:
// one arc-sequence path per commodity, the toll vector that realizes it,
// and the revenue objective sum_k demand_k * (toll cost of path_k).
type HeuristicResult struct {
	Paths [][]int
	Tolls []float64
	Obj   float64
}

// Heuristic is the external-dependency contract spec §4.8 describes: given
// a toll vector, produce a feasible primal solution. The core's only
// reliance on it is this signature; DefaultHeuristic is the shipped
// wiring (follower shortest paths at a 0.9999 toll discount, then an
// inverse-LP re-optimization of tolls against the realized paths) but a
// caller may substitute any function matching this type.
type Heuristic func(g *graph.LightGraph, p *problem.Problem, tolls []float64) (*HeuristicResult, error)

// DefaultHeuristic is the default Heuristic wiring (spec §4.8, detail
// supplemented from original_source's tolls_heuristic.cpp /
// follower_light_solver.cpp / inverse_solver.cpp): single-shot, not
// iterated internally (spec §9 Open Question: "Preserve: single-shot per
// call").
func DefaultHeuristic(g *graph.LightGraph, p *problem.Problem, tolls []float64) (*HeuristicResult, error) {
	// 1) Follower pass: temporarily discount tolled arcs by
	// tieBreakFactor, compute each commodity's shortest path, then
	// restore the graph's toll overlay exactly as found.
	saved := make([]float64, g.NumArcs())
	for a := 0; a < g.NumArcs(); a++ {
		saved[a] = g.ArcAt(a).Toll
	}
	for _, a := range p.TolledArcs {
		g.SetToll(a, tolls[a]*tieBreakFactor)
	}

	K := p.NumCommodities()
	paths := make([][]int, K)
	var firstErr error
	for k := 0; k < K; k++ {
		com := p.Commodities[k]
		path, err := g.ShortestPath(com.Origin, com.Destination)
		if err != nil {
			firstErr = err
			break
		}
		paths[k] = path
	}

	for a := 0; a < g.NumArcs(); a++ {
		g.SetToll(a, saved[a])
	}
	if firstErr != nil {
		return nil, problem.ErrPathUnreachable
	}

	// 2) Inverse-LP pass: force every (k,a) dual row along commodity k's
	// realized path to equality, and maximize sum of routed demand times
	// toll over tolled arcs that appear on any path (original_source's
	// inverse_solver.cpp tcoefs accumulation).
	inv := subsolver.NewDualLP(g, p)
	tcoefs := make([]float64, g.NumArcs())
	for k, path := range paths {
		com := p.Commodities[k]
		for _, a := range path {
			inv.PushEqual(k, a)
			if g.ArcAt(a).IsTolled {
				tcoefs[a] += com.Demand
			}
		}
	}
	inv.SetCustomObjective(tcoefs)
	if err := inv.Solve(); err != nil {
		return nil, err
	}

	newTolls := inv.Tolls()
	var obj float64
	for k, path := range paths {
		com := p.Commodities[k]
		var tollCost float64
		for _, a := range path {
			if g.ArcAt(a).IsTolled {
				tollCost += newTolls[a]
			}
		}
		obj += com.Demand * tollCost
	}

	return &HeuristicResult{Paths: paths, Tolls: newTolls, Obj: obj}, nil
}
