package bnb

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// TestScenarioDReliabilityGatesStrongBranching is spec §8 Scenario D:
// once every root candidate's (PRIMAL, DUAL) sample counts reach
// reliable_threshold, step must perform zero further strong evaluations
// and fall back to pseudocost scoring alone. strongEvalCount is internal,
// so this lives in package bnb rather than bnb_test.
func TestScenarioDReliabilityGatesStrongBranching(t *testing.T) {
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

	cfg := problem.DefaultConfig()
	cfg.ReliableThreshold = 2

	engine, err := NewEngine(g, p, cfg, io.Discard)
	require.NoError(t, err)

	root := &Node{LineageIdx: -1}
	ok, err := engine.updateRootBound(root)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, root.Candidates, "scenario needs a nonempty root candidate list to exercise branching")

	for _, c := range root.Candidates {
		for i := 0; i < cfg.ReliableThreshold; i++ {
			engine.history.Push(c, problem.PRIMAL, 0)
			engine.history.Push(c, problem.DUAL, 0)
		}
	}
	for _, c := range root.Candidates {
		require.True(t, engine.history.Reliable(c, cfg.ReliableThreshold))
	}

	before := engine.strongEvalCount
	engine.step(root)
	require.Equal(t, before, engine.strongEvalCount)
}
