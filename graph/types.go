// Package graph implements LightGraph (spec §4.1): an in-memory directed
// adjacency representation with a per-arc toll overlay, Dijkstra shortest
// paths, and price-label utilities. It is the primal substrate both the
// heuristic and the per-commodity shortest-path pool run on.
//
// Vertices and arcs are dense integer indices, not string IDs: the engine
// never names them, it only counts them (spec §3's Problem carries
// NumVertices/NumArcs), so there is no adjacency-map-of-maps string
// bookkeeping to pay for on every relax step.
package graph

import "errors"

// Sentinel errors for LightGraph operations.
var (
	// ErrPathUnreachable is returned by ShortestPath when no path exists
	// between the requested endpoints under the current arc mask.
	ErrPathUnreachable = errors.New("graph: path unreachable")

	// ErrNegativeWeight is returned if an arc carries a negative effective
	// cost (cost+toll); Dijkstra's correctness depends on nonnegativity.
	ErrNegativeWeight = errors.New("graph: negative effective arc weight")
)

// Arc is a directed edge keyed by its dense index. Cost is the toll-free
// base cost; Toll is the mutable overlay added when IsTolled. Enabled and
// TempEnabled are two masks that Dijkstra honors together; both start true
// and nothing else in this module changes TempEnabled. PRIMAL branches do
// not touch either flag: the primal pool passes a per-commodity exclusion
// mask to ShortestPathMasked instead.
type Arc struct {
	Src, Dst    int
	Cost        float64
	IsTolled    bool
	Toll        float64
	Enabled     bool
	TempEnabled bool
}

// effectiveCost is the weight Dijkstra relaxes on: base cost plus toll
// when the arc is tolled.
func (a *Arc) effectiveCost() float64 {
	if a.IsTolled {
		return a.Cost + a.Toll
	}
	return a.Cost
}

// LightGraph is a directed graph over dense vertex indices [0,NumVertices)
// with dense arc indices [0,NumArcs). adj[v] lists, in insertion order,
// the arc indices outgoing from v — insertion order is the deterministic
// Dijkstra tie-break spec §4.1 requires.
type LightGraph struct {
	numVertices int
	arcs        []Arc
	adj         [][]int
}

// NewLightGraph allocates an empty graph over n vertices.
func NewLightGraph(n int) *LightGraph {
	return &LightGraph{
		numVertices: n,
		adj:         make([][]int, n),
	}
}

// NumVertices returns the vertex count.
func (g *LightGraph) NumVertices() int { return g.numVertices }

// NumArcs returns the arc count.
func (g *LightGraph) NumArcs() int { return len(g.arcs) }

// AddArc appends a new arc src->dst with the given cost and tolled flag,
// enabled by default, and returns its dense index. Arcs are appended in
// caller order; that order is the tie-break Dijkstra honors.
func (g *LightGraph) AddArc(src, dst int, cost float64, isTolled bool) int {
	idx := len(g.arcs)
	g.arcs = append(g.arcs, Arc{
		Src: src, Dst: dst, Cost: cost, IsTolled: isTolled,
		Enabled: true, TempEnabled: true,
	})
	g.adj[src] = append(g.adj[src], idx)
	return idx
}

// ArcAt returns a pointer to arc a's record for direct inspection (the
// subsolver and heuristic read Src/Dst/Cost/IsTolled/Toll through it).
func (g *LightGraph) ArcAt(a int) *Arc { return &g.arcs[a] }

// SetEnabled toggles the persistent mask on arc a.
func (g *LightGraph) SetEnabled(a int, enabled bool) { g.arcs[a].Enabled = enabled }

// SetToll overwrites the mutable toll overlay on tolled arc a.
func (g *LightGraph) SetToll(a int, toll float64) { g.arcs[a].Toll = toll }

// SetTollArcsEnabled bulk-toggles the persistent mask of every tolled arc.
func (g *LightGraph) SetTollArcsEnabled(enabled bool) {
	for i := range g.arcs {
		if g.arcs[i].IsTolled {
			g.arcs[i].Enabled = enabled
		}
	}
}
