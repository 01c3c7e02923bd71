package bnb

import (
	"io"
	"sort"
	"time"

	"github.com/veyra-labs/netprice/graph"
	"github.com/veyra-labs/netprice/problem"
	"github.com/veyra-labs/netprice/subsolver"
)

// TOL is the slack-detection tolerance (spec §9): "A single constant TOL =
// 1e-4 governs slack detection."
const TOL = 1e-4

// Engine is the BranchAndBound scheduler (spec §4.4 / C6): it drives the
// main loop, reliability/strong branching, bound updates, pruning, the
// heuristic, and progress reporting. Single-threaded cooperative, per
// spec §5 — nothing in Engine is safe for concurrent use.
type Engine struct {
	Graph   *graph.LightGraph
	Problem *problem.Problem
	Config  problem.Config

	pair      *subsolver.Pair
	queue     Queue
	history   *ImprovementHistory
	lineage   *Lineage
	heuristic Heuristic
	reporter  *Reporter

	incumbent  *Node
	nextNodeID int
	stepCount  int

	branchCatCount  [3]int
	strongEvalCount int
	strongEvalTime  time.Duration
	heurTime        time.Duration

	startTime time.Time
	lastPrint time.Time
}

// NewEngine wires the default collaborators: pair over g/p, a Queue per
// cfg.QueueDiscipline, DefaultHeuristic, and a Reporter writing to w.
// Returns problem.ErrReliabilityInvariantViolation if cfg is malformed
// (spec §7: fatal, config rejected at construction).
func NewEngine(g *graph.LightGraph, p *problem.Problem, cfg problem.Config, w io.Writer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Graph:     g,
		Problem:   p,
		Config:    cfg,
		pair:      subsolver.NewPair(g, p),
		queue:     NewQueue(cfg.QueueDiscipline, cfg.OptDirection),
		history:   NewImprovementHistory(),
		lineage:   NewLineage(),
		heuristic: DefaultHeuristic,
		reporter:  NewReporter(w),
	}, nil
}

// Incumbent returns the best solution found so far (nil if none).
func (e *Engine) Incumbent() *Node { return e.incumbent }

// BranchCategoryCount returns how many steps produced i children (i in
// {0,1,2}), the supplemented branch_cat_count statistic (SPEC_FULL §5).
func (e *Engine) BranchCategoryCount(i int) int { return e.branchCatCount[i] }

// StepCount returns the number of processed nodes.
func (e *Engine) StepCount() int { return e.stepCount }

// Solve runs the main loop (spec §4.4) to completion or time limit.
// Returns whether an incumbent was installed.
func (e *Engine) Solve() (bool, error) {
	e.startTime = time.Now()
	e.lastPrint = e.startTime
	e.reporter.Header()

	root := &Node{LineageIdx: -1}
	ok, err := e.updateRootBound(root)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if root.IsSolution() {
		e.addNewSolution(root)
		return true, nil
	}
	e.queue.Append([]*Node{root})

	for !e.queue.Empty() {
		node := e.queue.Peek()
		e.queue.Pop()

		if time.Since(e.lastPrint).Seconds() >= e.Config.PrintInterval {
			e.printProgress(node)
			e.lastPrint = time.Now()
		}

		e.step(node)

		if e.Config.HeuristicFreq > 0 && e.stepCount%e.Config.HeuristicFreq == 0 {
			e.runHeuristic(node)
		}

		e.stepCount++

		if e.Config.TimeLimit > 0 && time.Since(e.startTime).Seconds() >= e.Config.TimeLimit {
			break
		}
	}

	e.reporter.Final(e.stepCount, e.bestObj(), e.bestBound(), time.Since(e.startTime),
		e.strongEvalCount, e.strongEvalTime, e.heurTime)
	return e.incumbent != nil, nil
}

// updateRootBound is spec §4.3's update_root_bound: clears both stacks,
// solves all K primals then the dual, and populates root. Root is always
// feasible in the shipped setting, but a malformed Problem can still make
// it infeasible; that is reported as (false, nil), not an error, since
// spec §7 treats LP infeasibility as a local, recoverable condition.
func (e *Engine) updateRootBound(root *Node) (bool, error) {
	e.pair.EnterNode(nil)
	if _, err := e.pair.SolveAllPrimals(); err != nil {
		return false, nil
	}
	if err := e.pair.Dual.Solve(); err != nil {
		return false, nil
	}

	K := e.Problem.NumCommodities()
	root.PrimalObjs = make([]float64, K)
	root.Arcs = make([][]int, K)
	for k := 0; k < K; k++ {
		root.PrimalObjs[k] = e.pair.Primal.Cost(k)
		root.Arcs[k] = append([]int(nil), e.pair.Primal.Arcs(k)...)
	}
	root.DualObj = e.pair.Dual.Objective()
	root.Tolls = append([]float64(nil), e.pair.Dual.Tolls()...)
	root.SlackMap = e.computeSlackMap()
	root.Bound = root.DualObj - e.weightedPrimal(root.PrimalObjs)
	root.Candidates = e.computeCandidates(root.Arcs, root.SlackMap)
	return true, nil
}

// updateBound is spec §4.3's update_bound: pushes (k,a) in direction d on
// top of parent's state, resolves only the affected side, reuses the
// other side's parent state, and always pops before returning — on both
// the success and the infeasible path (spec §5's push/pop balance
// invariant, spec §8 invariant 2).
func (e *Engine) updateBound(parent *Node, c problem.Candidate, d problem.Direction) (*Node, error) {
	k, a := c.K, c.A
	child := &Node{}

	if d == problem.PRIMAL {
		e.pair.Primal.Push(k, a)
		err := e.pair.Primal.Solve(k)
		if err != nil {
			e.pair.Primal.Pop(k)
			return nil, err
		}
		child.PrimalObjs = append([]float64(nil), parent.PrimalObjs...)
		child.Arcs = make([][]int, len(parent.Arcs))
		copy(child.Arcs, parent.Arcs)
		child.PrimalObjs[k] = e.pair.Primal.Cost(k)
		child.Arcs[k] = append([]int(nil), e.pair.Primal.Arcs(k)...)
		child.DualObj = parent.DualObj
		child.Tolls = parent.Tolls
		child.SlackMap = parent.SlackMap
		e.pair.Primal.Pop(k)
	} else {
		e.pair.Dual.PushEqual(k, a)
		err := e.pair.Dual.Solve()
		if err != nil {
			e.pair.Dual.PopEqual()
			return nil, err
		}
		child.DualObj = e.pair.Dual.Objective()
		child.PrimalObjs = parent.PrimalObjs
		child.Arcs = parent.Arcs
		child.Tolls = append([]float64(nil), e.pair.Dual.Tolls()...)
		child.SlackMap = e.computeSlackMap()
		e.pair.Dual.PopEqual()
	}

	child.Bound = child.DualObj - e.weightedPrimal(child.PrimalObjs)
	child.Candidates = e.computeCandidates(child.Arcs, child.SlackMap)
	return child, nil
}

// evaluateBranch is the strong-branching probe (spec §4.4 step 4 / §6's
// "evaluate_branch" virtual hook): runs updateBound transiently and
// reports the bound change versus node, or an error iff infeasible.
func (e *Engine) evaluateBranch(node *Node, c problem.Candidate, d problem.Direction) (float64, error) {
	start := time.Now()
	child, err := e.updateBound(node, c, d)
	e.strongEvalTime += time.Since(start)
	if err != nil {
		return -1, err
	}
	return absf(child.Bound - node.Bound), nil
}

// step is spec §4.4's per-node routine: enter the node, install it as a
// solution if it has no candidates, else reliability-branch to a
// candidate, open PRIMAL/DUAL children, prune, and queue survivors.
func (e *Engine) step(node *Node) {
	e.pair.EnterNode(e.lineage.Path(node.LineageIdx))
	e.syncTolls(node.Tolls)

	if node.IsSolution() {
		e.addNewSolution(node.Clone())
		return
	}

	type scored struct {
		c     problem.Candidate
		score float64
	}
	scores := make([]scored, len(node.Candidates))
	for i, c := range node.Candidates {
		down := e.history.Average(c, problem.PRIMAL)
		up := e.history.Average(c, problem.DUAL)
		scores[i] = scored{c, pseudoscore(down, up)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	best := scores[0].c
	bestScore := scores[0].score
	updated := false
	lookaheadCount := 0

	for _, sc := range scores {
		c := sc.c
		if e.history.Reliable(c, e.Config.ReliableThreshold) {
			continue
		}

		e.strongEvalCount++
		downImpr, downErr := e.evaluateBranch(node, c, problem.PRIMAL)
		upImpr, upErr := e.evaluateBranch(node, c, problem.DUAL)

		if downErr == nil {
			e.history.Push(c, problem.PRIMAL, downImpr)
		}
		if upErr == nil {
			e.history.Push(c, problem.DUAL, upImpr)
		}

		if downErr != nil || upErr != nil {
			// Open Question (preserved verbatim, spec §9): commit to this
			// candidate immediately on one-sided infeasibility, without
			// weighing the other direction's improvement.
			best, updated = c, true
			break
		}

		score := pseudoscore(downImpr, upImpr)
		if score > bestScore {
			bestScore = score
			best = c
			updated = true
			lookaheadCount = 0
		} else {
			lookaheadCount++
			if lookaheadCount >= e.Config.ReliableLookahead {
				break
			}
		}
	}

	var toQueue []*Node
	numChildren := 0
	for _, d := range [...]problem.Direction{problem.PRIMAL, problem.DUAL} {
		child, ok := e.makeChild(node, best, d)
		if !ok {
			continue
		}
		if !updated {
			e.history.Push(best, d, absf(child.Bound-node.Bound))
		}
		if !e.Config.OptDirection.Better(child.Bound, e.incumbentBound()) {
			continue
		}
		if child.IsSolution() {
			e.addNewSolution(child)
			continue
		}
		toQueue = append(toQueue, child)
		numChildren++
	}
	e.queue.Append(toQueue)
	e.branchCatCount[numChildren]++
}

// makeChild runs updateBound and, on success, assigns the child its id,
// parent link, and a fresh Lineage arena entry.
func (e *Engine) makeChild(parent *Node, c problem.Candidate, d problem.Direction) (*Node, bool) {
	child, err := e.updateBound(parent, c, d)
	if err != nil {
		return nil, false
	}
	e.nextNodeID++
	child.ID = e.nextNodeID
	child.ParentID = parent.ID
	child.LineageIdx = e.lineage.Add(parent.LineageIdx, c, d)
	child.Depth = parent.Depth + 1
	return child, true
}

// addNewSolution is spec §4.4's add_new_solution: install node as the
// incumbent if strictly better, pruning the queue and emitting an
// incumbent line.
func (e *Engine) addNewSolution(node *Node) {
	if e.incumbent != nil && !e.Config.OptDirection.Better(node.Bound, e.incumbent.Bound) {
		return
	}
	e.incumbent = node.Clone()
	e.queue.Prune(e.incumbent.Bound)
	e.printIncumbent(node)
}

// runHeuristic invokes the Heuristic seam (spec §4.8 / §6) on node's toll
// vector and, if it strictly improves the incumbent, installs a synthetic
// solution node (id=-1, parent=-1, no lineage, empty candidate list).
func (e *Engine) runHeuristic(node *Node) {
	start := time.Now()
	result, err := e.heuristic(e.Graph, e.Problem, node.Tolls)
	e.heurTime += time.Since(start)
	if err != nil {
		return
	}
	if e.incumbent != nil && !e.Config.OptDirection.Better(result.Obj, e.incumbent.Bound) {
		return
	}
	synthetic := &Node{
		ID:         -1,
		ParentID:   -1,
		LineageIdx: -1,
		Bound:      result.Obj,
		Arcs:       result.Paths,
		Tolls:      result.Tolls,
	}
	e.addNewSolution(synthetic)
}

// computeSlackMap recomputes spec §4.3's slack map from the subsolver's
// most recent dual solve: slack_map[k][a] = |slack| > TOL.
func (e *Engine) computeSlackMap() [][]bool {
	K := e.Problem.NumCommodities()
	numArcs := e.pair.NumArcs()
	sm := make([][]bool, K)
	for k := 0; k < K; k++ {
		sm[k] = make([]bool, numArcs)
		for a := 0; a < numArcs; a++ {
			s := e.pair.Dual.Slack(k, a)
			if s < 0 {
				s = -s
			}
			sm[k][a] = s > TOL
		}
	}
	return sm
}

// computeCandidates is spec §4.3's candidate list: (k,a) with slack_map
// true and a on commodity k's current path, in path-traversal order
// (commodities ascending, then first-occurrence order along arcs[k]) —
// spec §4.4's "Score tie-breaking" relies on this order for stable sort.
func (e *Engine) computeCandidates(arcs [][]int, slackMap [][]bool) []problem.Candidate {
	var cands []problem.Candidate
	for k, path := range arcs {
		seen := make(map[int]bool, len(path))
		for _, a := range path {
			if seen[a] {
				continue
			}
			seen[a] = true
			if slackMap[k][a] {
				cands = append(cands, problem.Candidate{K: k, A: a})
			}
		}
	}
	return cands
}

// weightedPrimal computes sum_k demand_k * primalObjs[k], the term spec
// §4.3's bound formula subtracts from the dual objective.
func (e *Engine) weightedPrimal(primalObjs []float64) float64 {
	var sum float64
	for k, obj := range primalObjs {
		sum += e.Problem.Commodities[k].Demand * obj
	}
	return sum
}

// syncTolls applies tolls onto the shared graph's toll overlay, so the
// primal pool's next shortest-path solve sees "the shared toll vector"
// spec §4.2's get_primal_cost contract names. Needed because DualLP never
// itself writes into graph.LightGraph — only an explicit sync does, and a
// PRIMAL branch (which doesn't re-solve the dual) depends on the overlay
// still reflecting the node it descends from.
func (e *Engine) syncTolls(tolls []float64) {
	if tolls == nil {
		return
	}
	for _, a := range e.Problem.TolledArcs {
		e.Graph.SetToll(a, tolls[a])
	}
}

func (e *Engine) incumbentBound() float64 {
	if e.incumbent == nil {
		return e.Config.OptDirection.WorstBound()
	}
	return e.incumbent.Bound
}

func (e *Engine) bestObj() float64 {
	if e.incumbent == nil {
		return e.Config.OptDirection.WorstBound()
	}
	return e.incumbent.Bound
}

func (e *Engine) bestBound() float64 {
	qb := e.queue.BestBound()
	ib := e.incumbentBound()
	if e.Config.OptDirection.Better(qb, ib) {
		return qb
	}
	return ib
}

func (e *Engine) printProgress(node *Node) {
	e.reporter.Progress(e.stepCount, e.queue.Size(), node.Depth, node.Bound, e.bestBound(),
		e.bestObj(), time.Since(e.startTime), node.ID, node.ParentID,
		e.strongEvalCount, e.strongEvalTime)
}

func (e *Engine) printIncumbent(node *Node) {
	e.reporter.Incumbent(e.stepCount, e.queue.Size(), node.Depth, node.Bound, e.bestBound(),
		e.bestObj(), time.Since(e.startTime), node.ID, node.ParentID,
		e.strongEvalCount, e.strongEvalTime)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
