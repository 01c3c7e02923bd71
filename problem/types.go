// Package problem defines the external, solver-independent data model for
// the network toll-pricing problem: the Problem itself, its commodities,
// the Config the engine is tuned with, and the branching vocabulary
// (Candidate, Direction) shared by the subsolver and the branch-and-bound
// engine.
//
// Nothing in this package depends on graph, subsolver, or bnb; it is pure
// data plus validation, constructed by the caller and held immutable for
// the duration of a solve.
package problem

import (
	"errors"
	"math"
)

// Sentinel errors surfaced by the solver. See spec §7 ERROR HANDLING DESIGN.
var (
	// ErrLPInfeasible is returned when a push-then-solve on the dual
	// subsolver finds no feasible point (the primal side reports
	// ErrPathUnreachable instead). Recovered locally: the caller closes the
	// branch, no crash.
	ErrLPInfeasible = errors.New("problem: LP infeasible")

	// ErrLPNumerical is returned when the LP solver reports a non-optimal
	// status without declaring infeasibility (e.g. a degenerate basis).
	// Treated identically to ErrLPInfeasible by callers.
	ErrLPNumerical = errors.New("problem: LP numerical failure")

	// ErrPathUnreachable is returned by a primal shortest-path call that
	// finds no path under the current arc mask. Treated as ErrLPInfeasible.
	ErrPathUnreachable = errors.New("problem: path unreachable")

	// ErrReliabilityInvariantViolation is returned by Config.Validate when
	// ReliableThreshold or ReliableLookahead is negative. Fatal: the config
	// is rejected at construction, never recovered mid-solve.
	ErrReliabilityInvariantViolation = errors.New("problem: reliability invariant violation")

	// ErrTimeLimitReached is not a failure. Neither bnb.Engine.Solve nor
	// netprice.Solve returns it: a run that hits the time limit returns
	// normally with whatever incumbent it has.
	ErrTimeLimitReached = errors.New("problem: time limit reached")
)

// Direction tags a branching decision: forbid an arc in a commodity's
// primal shortest path, or force a dual feasibility row to equality.
type Direction bool

const (
	// PRIMAL disables arc a for commodity k in the per-commodity shortest
	// path replica.
	PRIMAL Direction = false

	// DUAL forces the dual feasibility constraint for (k,a) to equality
	// (sets its lower bound equal to its upper bound).
	DUAL Direction = true
)

// String renders a Direction for progress lines and test failures.
func (d Direction) String() string {
	if d == DUAL {
		return "DUAL"
	}
	return "PRIMAL"
}

// Candidate is a point of nonuniqueness in the current LP relaxation: a
// commodity index paired with an arc index whose dual-feasibility row has
// positive slack. Branching on a Candidate may tighten the bound.
type Candidate struct {
	K int // commodity index
	A int // arc index
}

// Less gives the lexicographic (K, A) order. The engine does not call it:
// Engine.step breaks score ties by a stable sort that keeps candidate-list
// order.
func (c Candidate) Less(o Candidate) bool {
	if c.K != o.K {
		return c.K < o.K
	}
	return c.A < o.A
}

// Commodity is one follower: routes Demand units of flow from Origin to
// Destination along a shortest path under the leader's current tolls.
type Commodity struct {
	Origin      int
	Destination int
	Demand      float64
}

// Problem is the external, immutable-during-solve input: a directed graph
// (held by the caller as graph.LightGraph; this package only records its
// size and the commodities/cap data that are graph-independent), the
// commodity list, and precomputed per-arc / per-commodity-arc toll caps.
//
// BigN is read by subsolver.DualLP, which adds one t[a1] <= BigN[a1] row
// per tolled arc (see DESIGN.md). BigM is carried for completeness with
// spec §3's data model; the default LPSubsolverPair wiring never reads it.
type Problem struct {
	NumVertices int
	NumArcs     int

	// TolledArcs lists the indices, within [0,NumArcs), of arcs in A1
	// (tolled); all other arc indices belong to A2 (toll-free).
	TolledArcs []int

	Commodities []Commodity

	// BigN[a1] is a precomputed cap on the toll of tolled arc a1, indexed
	// by position within TolledArcs.
	BigN []float64

	// BigM[k][a1] is a precomputed cap on commodity k's sensitivity to
	// tolled arc a1, indexed [commodity][position within TolledArcs].
	BigM [][]float64
}

// NumCommodities is a convenience accessor.
func (p *Problem) NumCommodities() int { return len(p.Commodities) }

// QueueDiscipline selects one of the three exchangeable Queue behaviors
// described in spec §4.5.
type QueueDiscipline int

const (
	// BestFirst orders strictly by bound under OptDirection.
	BestFirst QueueDiscipline = iota
	// DepthFirst treats the queue as a stack.
	DepthFirst
	// Hybrid holds one "next" slot plus a best-first multiset fallback.
	Hybrid
)

// OptDirection is the sense of the outer optimization. The shipped problem
// is always MAX (toll revenue), but the type is kept explicit since every
// bound comparison in the engine is direction-sensitive.
type OptDirection int

const (
	// Max is the only direction the default wiring exercises.
	Max OptDirection = iota
	Min
)

// Config holds the recognized tuning options of spec §3.
type Config struct {
	// TimeLimit stops the main loop once elapsed exceeds this many
	// seconds. 0 means no limit.
	TimeLimit float64

	// ReliableThreshold is the minimum sample count per (candidate,
	// direction) before its pseudocost is trusted instead of probed by
	// strong branching. Default 8.
	ReliableThreshold int

	// ReliableLookahead is the number of additional non-improving probes
	// allowed after a reliable pseudocost selects a best candidate, before
	// the engine commits to it. Default 4.
	ReliableLookahead int

	// HeuristicFreq runs the primal heuristic every N processed nodes.
	// 0 disables it. Default 100.
	HeuristicFreq int

	// PrintInterval is the number of seconds between progress lines.
	// Default 5.
	PrintInterval float64

	// QueueDiscipline selects the Queue's exchangeable behavior.
	QueueDiscipline QueueDiscipline

	// OptDirection is the optimization sense; Max for the shipped problem.
	OptDirection OptDirection
}

// DefaultConfig returns the tuning defaults named in spec §3.
func DefaultConfig() Config {
	return Config{
		TimeLimit:         0,
		ReliableThreshold: 8,
		ReliableLookahead: 4,
		HeuristicFreq:     100,
		PrintInterval:     5,
		QueueDiscipline:   Hybrid,
		OptDirection:      Max,
	}
}

// Validate rejects configurations that violate the reliability invariant
// (spec §7: ErrReliabilityInvariantViolation, fatal, config rejected).
func (c Config) Validate() error {
	if c.ReliableThreshold < 0 || c.ReliableLookahead < 0 {
		return ErrReliabilityInvariantViolation
	}
	return nil
}

// Better reports whether bound a dominates bound b under d: strictly
// greater for Max, strictly less for Min. This single comparison point is
// what every prune/incumbent/score comparison in bnb routes through.
func (d OptDirection) Better(a, b float64) bool {
	if d == Max {
		return a > b
	}
	return a < b
}

// WorstBound returns the identity bound for an empty queue: -Inf for Max
// so any real bound beats it, +Inf for Min.
func (d OptDirection) WorstBound() float64 {
	if d == Max {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
