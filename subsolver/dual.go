package subsolver

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
)

// lpTol is the LP feasibility/optimality tolerance passed to the parametric
// simplex solver. It is distinct from bnb's slack-detection TOL
// (spec §9 "tolerances are consistent"); this one only governs the solver
// itself.
const lpTol = 1e-9

// DualLP is the shared linear program over all commodities' dual
// feasibility constraints (spec §4.2): for every arc a and commodity k,
//
//	lambda_k[src(a)] - lambda_k[dst(a)] - (tolled(a) ? t[a] : 0) <= cost(a)
//
// maximizing sum_k demand_k * (lambda_k[origin_k] - lambda_k[dest_k]).
//
// Standard form requires Ax = b, x >= 0. Free lambdas are split into
// nonnegative plus/minus parts. Each (k,a) row gets a nonnegative slack
// column turning its inequality into an equality, UNLESS the row is
// currently "pushed" (forced to equality by a DUAL branch), in which case
// the slack column is simply omitted — algebraically identical to setting
// that row's slack upper bound to zero.
type DualLP struct {
	g *graph.LightGraph
	p *problem.Problem

	numVertices int
	numCommod   int
	tollPos     map[int]int // graph arc index -> position within p.TolledArcs

	// forced records which (k,a) dual rows are currently pushed to
	// equality. The push/pop stack records the order so pop can restore
	// the exact previous state.
	forced map[problem.Candidate]bool
	stack  []problem.Candidate

	rnd *rand.Rand

	// last holds the most recent successful solve's outputs.
	lastObj    float64
	lastLambda [][]float64 // [k][v]
	lastT      []float64   // indexed by graph arc index, 0 for toll-free arcs
	feasible   bool

	// customObj, when non-nil, replaces the default revenue-dual
	// objective with a pure toll objective (indexed by graph arc index,
	// read only at tolled positions): maximize sum customObj[a]*t[a].
	// Used by the inverse-LP step of the default Heuristic (spec §4.8),
	// which re-optimizes tolls against fixed realized paths rather than
	// against free commodity routing.
	customObj []float64
}

// SetCustomObjective switches the LP to maximize sum(coef[a]*t[a]) over
// tolled arcs instead of the default dual-revenue objective. coef is
// indexed by graph arc index; entries for toll-free arcs are ignored.
func (d *DualLP) SetCustomObjective(coef []float64) { d.customObj = coef }

// ClearCustomObjective restores the default dual-revenue objective.
func (d *DualLP) ClearCustomObjective() { d.customObj = nil }

// NewDualLP builds the dual LP wiring over g and p. A single deterministic
// *rand.Rand seed is kept for the solver's anti-cycling perturbation so
// repeated solves of the same state reproduce the same basis sequence.
func NewDualLP(g *graph.LightGraph, p *problem.Problem) *DualLP {
	tollPos := make(map[int]int, len(p.TolledArcs))
	for i, a := range p.TolledArcs {
		tollPos[a] = i
	}
	return &DualLP{
		g:           g,
		p:           p,
		numVertices: g.NumVertices(),
		numCommod:   p.NumCommodities(),
		tollPos:     tollPos,
		forced:      make(map[problem.Candidate]bool),
		rnd:         rand.New(rand.NewSource(1)),
	}
}

// PushEqual forces the dual feasibility row for (k,a) to equality (spec
// §4.2 push_dual): sets its constraint's LB equal to its UB. Equivalent,
// in this standard-form translation, to dropping that row's slack column.
func (d *DualLP) PushEqual(k, a int) {
	c := problem.Candidate{K: k, A: a}
	d.forced[c] = true
	d.stack = append(d.stack, c)
}

// PopEqual reverses the most recent PushEqual (spec §4.2 pop_dual):
// restores the row's LB to -Inf, i.e. reinstates its slack column.
func (d *DualLP) PopEqual() {
	n := len(d.stack)
	if n == 0 {
		return
	}
	c := d.stack[n-1]
	d.stack = d.stack[:n-1]
	delete(d.forced, c)
}

// ClearEqual empties the push stack entirely (used by EnterNode before
// replaying a lineage from the root).
func (d *DualLP) ClearEqual() {
	d.forced = make(map[problem.Candidate]bool)
	d.stack = nil
}

// Solve builds the current standard-form LP (reflecting whatever rows are
// presently forced) and runs the parametric simplex method. A solver
// infeasibility is reported as problem.ErrLPInfeasible; any other solver
// error, or a panic inside the solver (degenerate or singular basis), is
// reported as problem.ErrLPNumerical, matching spec §7's "treated as
// LPInfeasible for safety".
func (d *DualLP) Solve() (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.feasible = false
			err = problem.ErrLPNumerical
		}
	}()

	c, A, b, cols := d.build()
	rows, nvars := len(b), len(c)
	if rows == 0 || nvars == 0 {
		d.feasible = false
		return problem.ErrLPInfeasible
	}

	dense := mat.NewDense(rows, nvars, A)
	optF, optX, _, solveErr := lp.Parametric(c, dense, b, lpTol, nil, false, d.rnd)
	if solveErr != nil {
		d.feasible = false
		if solveErr == lp.ErrInfeasible {
			return problem.ErrLPInfeasible
		}
		return problem.ErrLPNumerical
	}

	d.extract(optX, cols)
	d.lastObj = -optF // we minimized the negated maximization objective
	d.feasible = true
	return nil
}

// Feasible reports whether the most recent Solve succeeded.
func (d *DualLP) Feasible() bool { return d.feasible }

// Objective returns the dual objective of the most recent successful solve.
func (d *DualLP) Objective() float64 { return d.lastObj }

// Lambda returns commodity k's price-label vector from the most recent
// successful solve.
func (d *DualLP) Lambda(k int) []float64 { return d.lastLambda[k] }

// Tolls returns the toll vector (indexed by graph arc index, 0 on
// toll-free arcs) from the most recent successful solve.
func (d *DualLP) Tolls() []float64 { return d.lastT }

// Slack computes cost(a) - lambda_k[src] + lambda_k[dst] + (tolled ?
// t[a] : 0) for arc a and commodity k under the most recent solve — the
// quantity spec §4.3 calls "slack". Positive slack above TOL means (k,a)
// is a branching candidate if a also lies on commodity k's current path.
func (d *DualLP) Slack(k, a int) float64 {
	arc := d.g.ArcAt(a)
	lam := d.lastLambda[k]
	s := arc.Cost - lam[arc.Src] + lam[arc.Dst]
	if arc.IsTolled {
		s += d.lastT[a]
	}
	return s
}

// column layout, computed fresh by build() since the forced set changes
// the slack-variable count and placement each call.
type columns struct {
	lambdaPlusBase  int // k*numVertices + v
	lambdaMinusBase int
	tollBase        int // tollPos[a]
	slackIndex      map[problem.Candidate]int
}

// build constructs the objective vector c, the constraint matrix A (row
// major, flattened for mat.NewDense), and the RHS b for the current forced
// set. Rows are ordered (k ascending, then arc index ascending); this
// ordering has no externally observable effect (the LP's optimum doesn't
// depend on row order) but keeps the construction deterministic.
func (d *DualLP) build() (c []float64, A []float64, b []float64, cols columns) {
	V := d.numVertices
	K := d.numCommod
	T := len(d.p.TolledArcs)
	numArcs := d.g.NumArcs()

	cols.lambdaPlusBase = 0
	cols.lambdaMinusBase = K * V
	cols.tollBase = 2 * K * V
	cols.slackIndex = make(map[problem.Candidate]int)

	nextCol := cols.tollBase + T
	rowCands := make([]problem.Candidate, 0, K*numArcs)
	for k := 0; k < K; k++ {
		for a := 0; a < numArcs; a++ {
			cand := problem.Candidate{K: k, A: a}
			rowCands = append(rowCands, cand)
			if !d.forced[cand] {
				cols.slackIndex[cand] = nextCol
				nextCol++
			}
		}
	}
	// One t[a1] <= BigN[a1] row per tolled arc, each with its own slack.
	// This keeps the LP bounded (see DESIGN.md: the literal CPLEX
	// dual-only model leaves t unbounded above and relies on
	// complementary-slackness branching over the whole search tree to
	// stay bounded in practice; at a single node — and especially at
	// degenerate single-arc instances like spec Scenario A — that LP is
	// genuinely unbounded without this cap). Every feasible toll in the
	// true problem already satisfies t<=BigN, so adding it can only
	// tighten, never invalidate, the relaxation.
	bigNSlackBase := nextCol
	nextCol += T
	nvars := nextCol
	rows := len(rowCands) + T

	c = make([]float64, nvars)
	if d.customObj != nil {
		for pos, a := range d.p.TolledArcs {
			c[cols.tollBase+pos] = -d.customObj[a] // minimize -obj
		}
	} else {
		for k := 0; k < K; k++ {
			com := d.p.Commodities[k]
			c[cols.lambdaPlusBase+k*V+com.Origin] -= com.Demand
			c[cols.lambdaMinusBase+k*V+com.Origin] += com.Demand
			c[cols.lambdaPlusBase+k*V+com.Destination] += com.Demand
			c[cols.lambdaMinusBase+k*V+com.Destination] -= com.Demand
		}
	}

	A = make([]float64, rows*nvars)
	b = make([]float64, rows)
	for ri, cand := range rowCands {
		k, a := cand.K, cand.A
		arc := d.g.ArcAt(a)
		row := A[ri*nvars : (ri+1)*nvars]
		row[cols.lambdaPlusBase+k*V+arc.Src] += 1
		row[cols.lambdaMinusBase+k*V+arc.Src] -= 1
		row[cols.lambdaPlusBase+k*V+arc.Dst] -= 1
		row[cols.lambdaMinusBase+k*V+arc.Dst] += 1
		if arc.IsTolled {
			pos := d.tollPos[a]
			row[cols.tollBase+pos] -= 1
		}
		if sc, ok := cols.slackIndex[cand]; ok {
			row[sc] = 1
		}
		b[ri] = arc.Cost
	}

	for pos := range d.p.TolledArcs {
		ri := len(rowCands) + pos
		row := A[ri*nvars : (ri+1)*nvars]
		row[cols.tollBase+pos] = 1
		row[bigNSlackBase+pos] = 1
		b[ri] = d.p.BigN[pos]
	}
	return c, A, b, cols
}

// extract unpacks the solver's dense solution vector into lambda/t state.
func (d *DualLP) extract(x []float64, cols columns) {
	V := d.numVertices
	K := d.numCommod
	numArcs := d.g.NumArcs()

	d.lastLambda = make([][]float64, K)
	for k := 0; k < K; k++ {
		lam := make([]float64, V)
		for v := 0; v < V; v++ {
			lam[v] = x[cols.lambdaPlusBase+k*V+v] - x[cols.lambdaMinusBase+k*V+v]
		}
		d.lastLambda[k] = lam
	}

	d.lastT = make([]float64, numArcs)
	for a := 0; a < numArcs; a++ {
		if pos, ok := d.tollPos[a]; ok {
			d.lastT[a] = x[cols.tollBase+pos]
		}
	}
}
