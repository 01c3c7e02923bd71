package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice/graph"
)

func TestShortestPathSimple(t *testing.T) {
	g := graph.NewLightGraph(3)
	a01 := g.AddArc(0, 1, 1, false)
	a12 := g.AddArc(1, 2, 1, false)
	g.AddArc(0, 2, 10, false)

	path, err := g.ShortestPath(0, 2)
	require.NoError(t, err)
	require.Equal(t, []int{a01, a12}, path)
	require.Equal(t, float64(2), g.PathCost(path, true))
}

func TestShortestPathUnreachable(t *testing.T) {
	g := graph.NewLightGraph(2)
	_, err := g.ShortestPath(0, 1)
	require.ErrorIs(t, err, graph.ErrPathUnreachable)
}

func TestTollOverlayAffectsCost(t *testing.T) {
	g := graph.NewLightGraph(2)
	a := g.AddArc(0, 1, 5, true)
	g.SetToll(a, 3)
	path, err := g.ShortestPath(0, 1)
	require.NoError(t, err)
	require.Equal(t, float64(8), g.PathCost(path, true))
	require.Equal(t, float64(5), g.PathCost(path, false))
}

func TestDisablingArcRemovesPath(t *testing.T) {
	g := graph.NewLightGraph(2)
	a := g.AddArc(0, 1, 1, false)
	g.SetEnabled(a, false)
	_, err := g.ShortestPath(0, 1)
	require.ErrorIs(t, err, graph.ErrPathUnreachable)
}

func TestPriceFromAndPriceTo(t *testing.T) {
	g := graph.NewLightGraph(3)
	g.AddArc(0, 1, 2, false)
	g.AddArc(1, 2, 3, false)

	from := g.PriceFrom(0)
	require.Equal(t, []float64{0, 2, 5}, from)

	to := g.PriceTo(2)
	require.Equal(t, []float64{5, 3, 0}, to)
}

func TestDeterministicTieBreak(t *testing.T) {
	g := graph.NewLightGraph(2)
	first := g.AddArc(0, 1, 1, false)
	g.AddArc(0, 1, 1, false) // parallel arc, same cost

	path, err := g.ShortestPath(0, 1)
	require.NoError(t, err)
	// Both parallel arcs cost 1; the first one relaxed (insertion order)
	// is strictly-less at the time it's processed, the second only ties
	// and is therefore rejected, so the first-added arc always wins.
	require.Equal(t, []int{first}, path)
}
