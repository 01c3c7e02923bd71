package bnb

import (
	"fmt"
	"io"
	"time"
)

// Reporter emits the fixed-width progress/solution/final lines spec §4.9
// names, writing to an injected io.Writer (the ambient choice this
// codebase makes everywhere it needs diagnostic output — see DESIGN.md).
type Reporter struct {
	w             io.Writer
	headerEmitted bool
}

// NewReporter wraps w.
func NewReporter(w io.Writer) *Reporter { return &Reporter{w: w} }

// Header emits the fixed-width column header, once.
func (r *Reporter) Header() {
	if r.headerEmitted {
		return
	}
	r.headerEmitted = true
	fmt.Fprintf(r.w, "%8s %8s %6s %12s %12s %12s %8s %10s %8s %8s %10s %12s\n",
		"Step", "Left", "Depth", "Curr Bnd", "Best Bound", "Best Obj",
		"Gap %", "Time", "Index", "Parent", "StrEval", "StrEvalTime")
}

// gapRatio computes |bound-obj| / min(bound,obj); 0 when min(bound,obj) is 0.
func gapRatio(bound, obj float64) float64 {
	denom := bound
	if obj < denom {
		denom = obj
	}
	if denom == 0 {
		return 0
	}
	diff := bound - obj
	if diff < 0 {
		diff = -diff
	}
	return diff / denom
}

// Progress emits one node-processing line.
func (r *Reporter) Progress(step, queueLeft, depth int, currBound, bestBound, bestObj float64,
	elapsed time.Duration, nodeID, parentID, strongEvals int, strongEvalTime time.Duration) {
	fmt.Fprintf(r.w, "%8d %8d %6d %12.4f %12.4f %12.4f %8.2f %10.2f %8d %8d %10d %12.4f\n",
		step, queueLeft, depth, currBound, bestBound, bestObj,
		gapRatio(bestBound, bestObj)*100, elapsed.Seconds(), nodeID, parentID,
		strongEvals, strongEvalTime.Seconds())
}

// Incumbent emits an incumbent line, prefixed with "*" per spec §4.9.
func (r *Reporter) Incumbent(step, queueLeft, depth int, currBound, bestBound, bestObj float64,
	elapsed time.Duration, nodeID, parentID, strongEvals int, strongEvalTime time.Duration) {
	fmt.Fprintf(r.w, "*%7d %8d %6d %12.4f %12.4f %12.4f %8.2f %10.2f %8d %8d %10d %12.4f\n",
		step, queueLeft, depth, currBound, bestBound, bestObj,
		gapRatio(bestBound, bestObj)*100, elapsed.Seconds(), nodeID, parentID,
		strongEvals, strongEvalTime.Seconds())
}

// Final emits the closing summary line.
func (r *Reporter) Final(steps int, bestObj, bestBound float64, elapsed time.Duration,
	strongEvals int, strongEvalTime, heurTime time.Duration) {
	fmt.Fprintf(r.w, "done: steps=%d best_obj=%.4f best_bound=%.4f gap%%=%.2f elapsed=%.2fs streval=%d strevaltime=%.2fs heurtime=%.2fs\n",
		steps, bestObj, bestBound, gapRatio(bestBound, bestObj)*100, elapsed.Seconds(),
		strongEvals, strongEvalTime.Seconds(), heurTime.Seconds())
}
