package netprice_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice"
	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// TestSolveTrivialRootSolution exercises the root-level Solve wiring
// against spec §8 Scenario A: a single tolled arc, one commodity,
// big_n = 5 — the incumbent should be installed at the root, toll 5,
// revenue 50.
func TestSolveTrivialRootSolution(t *testing.T) {
	g := graph.NewLightGraph(2)
	a0 := g.AddArc(0, 1, 0, true)

	p := &problem.Problem{
		NumVertices: 2,
		NumArcs:     1,
		TolledArcs:  []int{a0},
		Commodities: []problem.Commodity{{Origin: 0, Destination: 1, Demand: 10}},
		BigN:        []float64{5},
	}

	rep, err := netprice.Solve(g, p, problem.DefaultConfig(), io.Discard)
	require.NoError(t, err)
	require.True(t, rep.Found)
	require.InDelta(t, 50.0, rep.Obj, 1e-6)
	require.InDelta(t, 5.0, rep.Tolls[a0], 1e-6)
	require.Equal(t, 0, rep.Steps)
	require.Equal(t, [3]int{0, 0, 0}, rep.BranchCategoryCount)
}

// TestSolveRejectsInvalidConfig exercises problem.ErrReliabilityInvariantViolation
// propagating out of Solve before any search begins.
func TestSolveRejectsInvalidConfig(t *testing.T) {
	g := graph.NewLightGraph(1)
	p := &problem.Problem{NumVertices: 1, Commodities: nil}

	cfg := problem.DefaultConfig()
	cfg.ReliableThreshold = -1

	_, err := netprice.Solve(g, p, cfg, io.Discard)
	require.ErrorIs(t, err, problem.ErrReliabilityInvariantViolation)
}
