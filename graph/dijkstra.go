package graph

import (
	"container/heap"
	"math"
)

// ShortestPath runs Dijkstra from src to dst over arcs whose Enabled and
// TempEnabled flags both hold, relaxing on effective cost (cost+toll when
// tolled). Ties in the heap are broken by insertion order into the heap,
// which mirrors arc-append order (see arcItem.seq) so results are
// reproducible across runs, per spec §4.1.
//
// Returns the arc sequence forming the path (empty slice, not nil, if
// src==dst) or ErrPathUnreachable if dst is not reached.
func (g *LightGraph) ShortestPath(src, dst int) ([]int, error) {
	return g.ShortestPathMasked(src, dst, nil)
}

// ShortestPathMasked is ShortestPath with an additional per-call exclusion
// set: excluded[a]==true removes arc a from consideration regardless of
// its Enabled/TempEnabled flags. The primal shortest-path pool (spec
// §4.2) uses this to give each commodity its own disabled-arc overlay
// without mutating the shared graph's persistent state.
//
// Pre-scans every enabled, unexcluded arc for a negative effective cost
// and fails fast with ErrNegativeWeight before running Dijkstra, since a
// toll can in principle drive cost+toll below zero and Dijkstra's
// correctness depends on nonnegative weights.
func (g *LightGraph) ShortestPathMasked(src, dst int, excluded []bool) ([]int, error) {
	for a := range g.arcs {
		ar := &g.arcs[a]
		if !ar.Enabled || !ar.TempEnabled {
			continue
		}
		if excluded != nil && excluded[a] {
			continue
		}
		if ar.effectiveCost() < 0 {
			return nil, ErrNegativeWeight
		}
	}

	dist, prevArc := g.runDijkstra(src, excluded)
	if math.IsInf(dist[dst], 1) {
		return nil, ErrPathUnreachable
	}
	if src == dst {
		return []int{}, nil
	}

	// Walk prevArc backward from dst to src, then reverse.
	var arcs []int
	v := dst
	for v != src {
		a := prevArc[v]
		arcs = append(arcs, a)
		v = g.arcs[a].Src
	}
	for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	}
	return arcs, nil
}

// PriceFrom returns the Dijkstra cost label from src to every vertex;
// unreachable vertices carry +Inf. Never fails.
func (g *LightGraph) PriceFrom(src int) []float64 {
	dist, _ := g.runDijkstra(src, nil)
	return dist
}

// PriceTo returns the Dijkstra cost label from every vertex to dst, by
// running Dijkstra over the reversed effective-cost relation. Never fails.
func (g *LightGraph) PriceTo(dst int) []float64 {
	rg := g.reversed()
	dist, _ := rg.runDijkstra(dst, nil)
	return dist
}

// PathCost sums effective (or base, if includeTolls is false) cost along
// an arc sequence.
func (g *LightGraph) PathCost(arcs []int, includeTolls bool) float64 {
	var sum float64
	for _, a := range arcs {
		ar := &g.arcs[a]
		if includeTolls {
			sum += ar.effectiveCost()
		} else {
			sum += ar.Cost
		}
	}
	return sum
}

// reversed builds a transient graph with every arc direction flipped,
// preserving cost/toll/enabled state, for the PriceTo backward pass.
func (g *LightGraph) reversed() *LightGraph {
	rg := NewLightGraph(g.numVertices)
	rg.arcs = make([]Arc, len(g.arcs))
	for i, a := range g.arcs {
		ra := a
		ra.Src, ra.Dst = a.Dst, a.Src
		rg.arcs[i] = ra
		rg.adj[ra.Src] = append(rg.adj[ra.Src], i)
	}
	return rg
}

// arcItem is a heap entry: the vertex reached, the tentative distance, and
// the arc that achieved it (unused for the source entry, arc=-1).
type arcItem struct {
	vertex int
	dist   float64
	arc    int
	seq    int // insertion sequence, breaks ties deterministically
}

type arcPQ []*arcItem

func (pq arcPQ) Len() int { return len(pq) }
func (pq arcPQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq arcPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *arcPQ) Push(x interface{}) { *pq = append(*pq, x.(*arcItem)) }
func (pq *arcPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// runDijkstra is the shared lazy-decrease-key core: visited vertices are
// finalized once; stale heap entries are dropped on pop by comparing
// against the finalized distance. excluded may be nil (no extra mask).
func (g *LightGraph) runDijkstra(src int, excluded []bool) (dist []float64, prevArc []int) {
	dist = make([]float64, g.numVertices)
	prevArc = make([]int, g.numVertices)
	visited := make([]bool, g.numVertices)
	for v := range dist {
		dist[v] = math.Inf(1)
		prevArc[v] = -1
	}
	dist[src] = 0

	pq := make(arcPQ, 0, g.numVertices)
	heap.Init(&pq)
	seq := 0
	heap.Push(&pq, &arcItem{vertex: src, dist: 0, arc: -1, seq: seq})
	seq++

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*arcItem)
		u := item.vertex
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, a := range g.adj[u] {
			ar := &g.arcs[a]
			if !ar.Enabled || !ar.TempEnabled {
				continue
			}
			if excluded != nil && excluded[a] {
				continue
			}
			w := ar.effectiveCost()
			nd := dist[u] + w
			v := ar.Dst
			if visited[v] || nd >= dist[v] {
				continue
			}
			dist[v] = nd
			prevArc[v] = a
			heap.Push(&pq, &arcItem{vertex: v, dist: nd, arc: a, seq: seq})
			seq++
		}
	}
	return dist, prevArc
}
