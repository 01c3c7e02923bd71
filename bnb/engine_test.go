package bnb_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice/bnb"
	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// TestScenarioATrivialRootSolution is spec §8 Scenario A: a single tolled
// arc, one commodity, big_n = 5. The root dual is tight on the one arc
// (candidate list empty), so the incumbent is installed without any
// branching.
func TestScenarioATrivialRootSolution(t *testing.T) {
	g := graph.NewLightGraph(2)
	a0 := g.AddArc(0, 1, 0, true)

	p := &problem.Problem{
		NumVertices: 2,
		NumArcs:     1,
		TolledArcs:  []int{a0},
		Commodities: []problem.Commodity{{Origin: 0, Destination: 1, Demand: 10}},
		BigN:        []float64{5},
	}

	engine, err := bnb.NewEngine(g, p, problem.DefaultConfig(), io.Discard)
	require.NoError(t, err)

	found, err := engine.Solve()
	require.NoError(t, err)
	require.True(t, found)

	inc := engine.Incumbent()
	require.NotNil(t, inc)
	require.InDelta(t, 50.0, inc.Bound, 1e-6)
	require.InDelta(t, 5.0, inc.Tolls[a0], 1e-6)

	require.Equal(t, 0, engine.StepCount())
	require.Equal(t, 0, engine.BranchCategoryCount(0))
	require.Equal(t, 0, engine.BranchCategoryCount(1))
	require.Equal(t, 0, engine.BranchCategoryCount(2))
}

// TestScenarioBOneBranchingLevel is spec §8 Scenario B: two tolled arcs in
// series compete with one toll-free shortcut of cost 10. The toll-free
// path caps total collectible revenue at 10 regardless of how the two
// tolled arcs split it — an LP-theory fact independent of which vertex the
// degenerate dual optimum lands on, so this only asserts the revenue, not
// the exact branching trace.
func TestScenarioBOneBranchingLevel(t *testing.T) {
	g := graph.NewLightGraph(3)
	a01 := g.AddArc(0, 1, 0, true)
	a12 := g.AddArc(1, 2, 0, true)
	g.AddArc(0, 2, 10, false)

	p := &problem.Problem{
		NumVertices: 3,
		NumArcs:     3,
		TolledArcs:  []int{a01, a12},
		Commodities: []problem.Commodity{{Origin: 0, Destination: 2, Demand: 1}},
		BigN:        []float64{10, 10},
	}

	engine, err := bnb.NewEngine(g, p, problem.DefaultConfig(), io.Discard)
	require.NoError(t, err)

	found, err := engine.Solve()
	require.NoError(t, err)
	require.True(t, found)

	inc := engine.Incumbent()
	require.NotNil(t, inc)
	require.InDelta(t, 10.0, inc.Bound, 1e-4)
}

// TestScenarioETimeout is spec §8 Scenario E: a tiny time_limit on a
// nontrivial 50-vertex chain. The loop always completes at least one
// iteration before checking elapsed time (spec §9 "scoped state" /
// "sparse deadline checks"), and the default heuristic fires on that first
// iteration (heuristic_freq=100, 0%100==0), so a connected instance is
// expected to yield a feasible incumbent even under this budget; the test
// only requires that IF an incumbent is returned, it is feasible against
// its own tolls.
func TestScenarioETimeout(t *testing.T) {
	const n = 50
	g := graph.NewLightGraph(n)
	tolled := make([]int, 0, n-1)
	for v := 0; v < n-1; v++ {
		a := g.AddArc(v, v+1, 1, v%2 == 0)
		if v%2 == 0 {
			tolled = append(tolled, a)
		}
	}

	bigN := make([]float64, len(tolled))
	for i := range bigN {
		bigN[i] = 5
	}

	p := &problem.Problem{
		NumVertices: n,
		NumArcs:     g.NumArcs(),
		TolledArcs:  tolled,
		Commodities: []problem.Commodity{
			{Origin: 0, Destination: n - 1, Demand: 3},
			{Origin: 0, Destination: n / 2, Demand: 2},
		},
		BigN: bigN,
	}

	cfg := problem.DefaultConfig()
	cfg.TimeLimit = 0.001

	engine, err := bnb.NewEngine(g, p, cfg, io.Discard)
	require.NoError(t, err)

	found, err := engine.Solve()
	require.NoError(t, err)

	if !found {
		return
	}
	inc := engine.Incumbent()
	require.NotNil(t, inc)

	for a, toll := range inc.Tolls {
		if g.ArcAt(a).IsTolled {
			g.SetToll(a, toll)
		}
	}
	for k, com := range p.Commodities {
		path, perr := g.ShortestPath(com.Origin, com.Destination)
		require.NoError(t, perr)
		// The realized path need not be byte-identical to the recomputed one
		// under a tie, but both must cost the same under the reported tolls
		// (the inverse-LP's dual feasibility guarantees the realized path is
		// a shortest path under its own output tolls).
		require.InDelta(t, g.PathCost(path, true), g.PathCost(inc.Arcs[k], true), 1e-6)
	}
}
