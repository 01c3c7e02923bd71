package bnb

import (
	"container/heap"

	"github.com/veyra-labs/netprice/problem"
)

// Queue is the node container capability set spec §4.5 names: size, empty,
// peek, pop, append, prune, best_bound. The engine holds exactly one,
// selected by problem.Config.QueueDiscipline.
type Queue interface {
	Size() int
	Empty() bool
	Peek() *Node
	Pop() *Node
	Append(children []*Node)
	Prune(bound float64)
	BestBound() float64
}

// NewQueue builds the Queue implementation matching discipline.
func NewQueue(discipline problem.QueueDiscipline, dir problem.OptDirection) Queue {
	switch discipline {
	case problem.DepthFirst:
		return &depthFirstQueue{dir: dir}
	case problem.Hybrid:
		return &hybridQueue{dir: dir, rest: newBestFirstQueue(dir)}
	default:
		return newBestFirstQueue(dir)
	}
}

// nodeHeap is a container/heap.Interface over *Node that sorts the
// "better" bound (per dir) to index 0.
type nodeHeap struct {
	dir   problem.OptDirection
	nodes []*Node
}

func (h *nodeHeap) Len() int      { return len(h.nodes) }
func (h *nodeHeap) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }
func (h *nodeHeap) Less(i, j int) bool {
	return h.dir.Better(h.nodes[i].Bound, h.nodes[j].Bound)
}
func (h *nodeHeap) Push(x interface{}) { h.nodes = append(h.nodes, x.(*Node)) }
func (h *nodeHeap) Pop() interface{} {
	old := h.nodes
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.nodes = old[:n-1]
	return item
}

// --- best-first: a multiset ordered by "better bound first" ---

type bestFirstQueue struct {
	dir  problem.OptDirection
	heap nodeHeap
}

func newBestFirstQueue(dir problem.OptDirection) *bestFirstQueue {
	q := &bestFirstQueue{dir: dir, heap: nodeHeap{dir: dir}}
	heap.Init(&q.heap)
	return q
}

func (q *bestFirstQueue) Size() int   { return len(q.heap.nodes) }
func (q *bestFirstQueue) Empty() bool { return len(q.heap.nodes) == 0 }
func (q *bestFirstQueue) Peek() *Node {
	if len(q.heap.nodes) == 0 {
		return nil
	}
	return q.heap.nodes[0]
}
func (q *bestFirstQueue) Pop() *Node {
	if len(q.heap.nodes) == 0 {
		return nil
	}
	return heap.Pop(&q.heap).(*Node)
}
func (q *bestFirstQueue) Append(children []*Node) {
	for _, c := range children {
		heap.Push(&q.heap, c)
	}
}
func (q *bestFirstQueue) Prune(bound float64) {
	kept := q.heap.nodes[:0]
	for _, n := range q.heap.nodes {
		if q.dir.Better(n.Bound, bound) {
			kept = append(kept, n)
		}
	}
	q.heap.nodes = kept
	heap.Init(&q.heap)
}
func (q *bestFirstQueue) BestBound() float64 {
	if len(q.heap.nodes) == 0 {
		return q.dir.WorstBound()
	}
	return q.heap.nodes[0].Bound
}

// --- depth-first: a stack; best_bound is a linear scan ---

type depthFirstQueue struct {
	dir   problem.OptDirection
	stack []*Node
}

func (q *depthFirstQueue) Size() int   { return len(q.stack) }
func (q *depthFirstQueue) Empty() bool { return len(q.stack) == 0 }
func (q *depthFirstQueue) Peek() *Node {
	if len(q.stack) == 0 {
		return nil
	}
	return q.stack[len(q.stack)-1]
}
func (q *depthFirstQueue) Pop() *Node {
	n := len(q.stack)
	if n == 0 {
		return nil
	}
	item := q.stack[n-1]
	q.stack = q.stack[:n-1]
	return item
}
func (q *depthFirstQueue) Append(children []*Node) {
	q.stack = append(q.stack, children...)
}
func (q *depthFirstQueue) Prune(bound float64) {
	kept := q.stack[:0]
	for _, n := range q.stack {
		if q.dir.Better(n.Bound, bound) {
			kept = append(kept, n)
		}
	}
	q.stack = kept
}
func (q *depthFirstQueue) BestBound() float64 {
	best := q.dir.WorstBound()
	for _, n := range q.stack {
		if q.dir.Better(n.Bound, best) {
			best = n.Bound
		}
	}
	return best
}

// --- hybrid: one held "next" pointer plus a best-first multiset ---
//
// spec §4.5: "On append(children), the best of the incoming children
// becomes the new next; the previously held next (if any) enters the
// multiset; remaining children enter the multiset. On pop, consume next
// first."
type hybridQueue struct {
	dir  problem.OptDirection
	next *Node
	rest *bestFirstQueue
}

func (q *hybridQueue) Size() int {
	n := q.rest.Size()
	if q.next != nil {
		n++
	}
	return n
}
func (q *hybridQueue) Empty() bool { return q.next == nil && q.rest.Empty() }
func (q *hybridQueue) Peek() *Node {
	if q.next != nil {
		return q.next
	}
	return q.rest.Peek()
}
func (q *hybridQueue) Pop() *Node {
	if q.next != nil {
		n := q.next
		q.next = nil
		return n
	}
	return q.rest.Pop()
}
func (q *hybridQueue) Append(children []*Node) {
	if len(children) == 0 {
		return
	}
	bestIdx := 0
	for i, c := range children {
		if q.dir.Better(c.Bound, children[bestIdx].Bound) {
			bestIdx = i
		}
	}
	best := children[bestIdx]

	if q.next != nil {
		q.rest.Append([]*Node{q.next})
	}
	for i, c := range children {
		if i != bestIdx {
			q.rest.Append([]*Node{c})
		}
	}
	q.next = best
}
func (q *hybridQueue) Prune(bound float64) {
	if q.next != nil && !q.dir.Better(q.next.Bound, bound) {
		q.next = nil
	}
	q.rest.Prune(bound)
}
func (q *hybridQueue) BestBound() float64 {
	best := q.rest.BestBound()
	if q.next != nil && q.dir.Better(q.next.Bound, best) {
		return q.next.Bound
	}
	return best
}
