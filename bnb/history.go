package bnb

import "github.com/veyra-labs/netprice/problem"

// historyKey pairs a Candidate with the Direction it was branched in; it
// is the key ImprovementHistory indexes on (spec §3 ImprovementEntry).
type historyKey struct {
	candidate problem.Candidate
	direction problem.Direction
}

// ImprovementHistory maps (candidate, direction) to a running (sum, count)
// of observed LP-bound improvements, feeding pseudocost (spec §4.7). Not
// safe for concurrent use; the engine is single-threaded (spec §5).
type ImprovementHistory struct {
	entries map[historyKey]*histEntry
}

type histEntry struct {
	sum   float64
	count int
}

// NewImprovementHistory returns an empty history.
func NewImprovementHistory() *ImprovementHistory {
	return &ImprovementHistory{entries: make(map[historyKey]*histEntry)}
}

// Push records an observed improvement x for (c, d).
func (h *ImprovementHistory) Push(c problem.Candidate, d problem.Direction, x float64) {
	k := historyKey{c, d}
	e, ok := h.entries[k]
	if !ok {
		e = &histEntry{}
		h.entries[k] = e
	}
	e.sum += x
	e.count++
}

// Average returns the running mean for (c, d), 0 if no samples yet.
// Invariant: whenever Count > 0, Average >= 0 (spec §8 invariant 5) — this
// holds because only nonnegative improvements are ever pushed (see
// Engine.evaluateBranch).
func (h *ImprovementHistory) Average(c problem.Candidate, d problem.Direction) float64 {
	e, ok := h.entries[historyKey{c, d}]
	if !ok || e.count == 0 {
		return 0
	}
	return e.sum / float64(e.count)
}

// Count returns the sample count for (c, d).
func (h *ImprovementHistory) Count(c problem.Candidate, d problem.Direction) int {
	e, ok := h.entries[historyKey{c, d}]
	if !ok {
		return 0
	}
	return e.count
}

// Reliable reports whether both directions of c have at least threshold
// samples (spec §4.4 step 4: "skip any candidate whose down- and up-
// counts both >= reliable_threshold").
func (h *ImprovementHistory) Reliable(c problem.Candidate, threshold int) bool {
	return h.Count(c, problem.PRIMAL) >= threshold && h.Count(c, problem.DUAL) >= threshold
}

// pseudoscore computes (5*min(down,up) + max(down,up)) / 6, spec §4.4's
// score formula, from whatever averages/observations are supplied.
func pseudoscore(down, up float64) float64 {
	min, max := down, up
	if min > max {
		min, max = max, min
	}
	return (5*min + max) / 6
}
