package bnb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/netprice/bnb"
	"github.com/veyra-labs/netprice/problem"
)

func TestImprovementHistoryAverageAndReliable(t *testing.T) {
	h := bnb.NewImprovementHistory()
	c := problem.Candidate{K: 0, A: 1}

	require.Equal(t, 0, h.Count(c, problem.PRIMAL))
	require.Equal(t, 0.0, h.Average(c, problem.PRIMAL))
	require.False(t, h.Reliable(c, 1))

	h.Push(c, problem.PRIMAL, 4)
	h.Push(c, problem.PRIMAL, 2)
	require.Equal(t, 2, h.Count(c, problem.PRIMAL))
	require.InDelta(t, 3.0, h.Average(c, problem.PRIMAL), 1e-9)

	// Reliable requires both directions to meet the threshold.
	require.False(t, h.Reliable(c, 2))
	h.Push(c, problem.DUAL, 1)
	h.Push(c, problem.DUAL, 1)
	require.True(t, h.Reliable(c, 2))
	require.False(t, h.Reliable(c, 3))
}

func TestImprovementHistoryKeysAreIndependentPerDirection(t *testing.T) {
	h := bnb.NewImprovementHistory()
	a := problem.Candidate{K: 0, A: 0}
	b := problem.Candidate{K: 0, A: 1}

	h.Push(a, problem.PRIMAL, 10)
	h.Push(b, problem.PRIMAL, 20)
	require.InDelta(t, 10.0, h.Average(a, problem.PRIMAL), 1e-9)
	require.InDelta(t, 20.0, h.Average(b, problem.PRIMAL), 1e-9)
	require.Equal(t, 0, h.Count(a, problem.DUAL))
}
