package bnb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice/bnb"
	"github.com/veyra-labs/netprice/problem"
)

func node(bound float64) *bnb.Node { return &bnb.Node{Bound: bound} }

// TestHybridQueueDive is spec Scenario F verbatim.
func TestHybridQueueDive(t *testing.T) {
	q := bnb.NewQueue(problem.Hybrid, problem.Max)

	q.Append([]*bnb.Node{node(10), node(8)})
	require.Equal(t, float64(10), q.Peek().Bound)
	q.Pop()
	require.Equal(t, float64(8), q.Peek().Bound)

	q.Append([]*bnb.Node{node(12), node(6)})
	require.Equal(t, float64(12), q.Peek().Bound)
	q.Pop()

	require.Equal(t, float64(8), q.Pop().Bound)
	require.Equal(t, float64(6), q.Pop().Bound)
	require.True(t, q.Empty())
}

func TestBestFirstQueuePrune(t *testing.T) {
	q := bnb.NewQueue(problem.BestFirst, problem.Max)
	q.Append([]*bnb.Node{node(18), node(18.00001), node(5)})
	q.Prune(18)
	require.Equal(t, 1, q.Size())
	require.Equal(t, 18.00001, q.Peek().Bound)
}

func TestDepthFirstQueueOrder(t *testing.T) {
	q := bnb.NewQueue(problem.DepthFirst, problem.Max)
	q.Append([]*bnb.Node{node(1), node(2), node(3)})
	require.Equal(t, float64(3), q.Pop().Bound)
	require.Equal(t, float64(2), q.Pop().Bound)
	require.Equal(t, float64(1), q.Pop().Bound)
}
