// Package netprice is the unified entry point for the network toll-pricing
// branch-and-bound engine.
//
// This file provides the canonical entry point to run a solve:
//
//   - Solve: accept a *graph.LightGraph and a problem.Problem + problem.Config,
//     build the default subsolver/queue/heuristic wiring, run
//     bnb.Engine to completion or time limit, and return the
//     incumbent plus a summary Report.
//
// Design principles (matching the teacher's tsp.SolveWithGraph /
// tsp.SolveWithMatrix dispatcher):
//   - Strict sentinels: errors are only ever those named in problem's error
//     variables; no ad-hoc fmt.Errorf where a sentinel suffices.
//   - Deterministic: no time-based randomness anywhere in the search itself.
//   - CLI argument parsing, file formats, and report pretty-printing beyond
//     Reporter's line format are out of scope (spec.md §1 Non-goals).
package netprice

import (
	"io"

	"github.com/veyra-labs/netprice/bnb"
	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// Report summarizes a completed (or time-limited) solve for callers that
// don't need to reach into the internal bnb.Engine.
type Report struct {
	// Found reports whether any feasible solution was installed.
	Found bool

	// Obj is the incumbent's objective (toll revenue); 0 if Found is false.
	Obj float64

	// Tolls is the incumbent's toll vector, indexed by graph arc index.
	Tolls []float64

	// Paths is the incumbent's realized path per commodity, as arc sequences.
	Paths [][]int

	// Steps is the number of branch-and-bound nodes processed.
	Steps int

	// BranchCategoryCount[i] counts steps that produced i children (i in 0,1,2).
	BranchCategoryCount [3]int
}

// Solve validates config cfg (p itself is not checked), wires the default
// subsolver/queue/heuristic collaborators over g, and runs the
// branch-and-bound engine to completion (or until cfg.TimeLimit elapses).
//
// Contracts:
//   - g must be non-nil and sized to match p.NumVertices/p.NumArcs.
//   - cfg is validated via problem.Config.Validate; a malformed config
//     (negative ReliableThreshold/ReliableLookahead) returns
//     problem.ErrReliabilityInvariantViolation before any search begins.
//
// w receives the Reporter's progress/incumbent/final lines; pass io.Discard
// to suppress them.
func Solve(g *graph.LightGraph, p *problem.Problem, cfg problem.Config, w io.Writer) (Report, error) {
	if w == nil {
		w = io.Discard
	}

	engine, err := bnb.NewEngine(g, p, cfg, w)
	if err != nil {
		return Report{}, err
	}

	found, err := engine.Solve()
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Found: found,
		Steps: engine.StepCount(),
	}
	for i := 0; i < 3; i++ {
		rep.BranchCategoryCount[i] = engine.BranchCategoryCount(i)
	}
	if found {
		inc := engine.Incumbent()
		rep.Obj = inc.Bound
		rep.Tolls = inc.Tolls
		rep.Paths = inc.Arcs
	}
	return rep, nil
}
