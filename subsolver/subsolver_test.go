package subsolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
	"github.com/veyra-labs/netprice/subsolver"
)

// buildScenarioA mirrors spec Scenario A: 2 vertices, 1 tolled arc 0->1,
// 1 commodity demand=10.
func buildScenarioA() (*graph.LightGraph, *problem.Problem) {
	g := graph.NewLightGraph(2)
	g.AddArc(0, 1, 0, true)
	p := &problem.Problem{
		NumVertices: 2,
		NumArcs:     1,
		TolledArcs:  []int{0},
		Commodities: []problem.Commodity{{Origin: 0, Destination: 1, Demand: 10}},
		BigN:        []float64{5},
		BigM:        [][]float64{{5}},
	}
	return g, p
}

func TestPrimalPoolIndependentMasks(t *testing.T) {
	g := graph.NewLightGraph(3)
	a01 := g.AddArc(0, 1, 1, false)
	g.AddArc(1, 2, 1, false)
	p := &problem.Problem{
		NumVertices: 3,
		Commodities: []problem.Commodity{
			{Origin: 0, Destination: 2, Demand: 1},
			{Origin: 0, Destination: 2, Demand: 1},
		},
	}
	pool := subsolver.NewPrimalPool(g, p)

	pool.Push(0, a01)
	require.Error(t, pool.Solve(0))
	require.NoError(t, pool.Solve(1))
	require.True(t, pool.Feasible(1))

	pool.Pop(0)
	require.NoError(t, pool.Solve(0))
}

func TestDualLPRootSolveScenarioA(t *testing.T) {
	g, p := buildScenarioA()
	d := subsolver.NewDualLP(g, p)
	err := d.Solve()
	require.NoError(t, err)
	require.True(t, d.Feasible())
	// The t[0] <= BigN[0] row keeps the dual bounded; the parametric
	// simplex returns *a* optimal vertex. Revenue-maximizing optimum routes
	// all slack into the single tolled arc: t[0] should be finite and
	// nonnegative.
	require.GreaterOrEqual(t, d.Tolls()[0], -1e-6)
}

func TestDualPushPopRestoresForcedSet(t *testing.T) {
	g, p := buildScenarioA()
	d := subsolver.NewDualLP(g, p)
	d.PushEqual(0, 0)
	d.PopEqual()
	// After a balanced push/pop, a fresh solve should behave exactly as
	// the unforced root LP (feasibility at least).
	require.NoError(t, d.Solve())
}
