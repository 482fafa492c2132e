// Package frontier provides the two orderings a sweep can expand candidates
// in: discovery order (breadth-first) or lowest cost first (greedy best-first).
//
// Neither implementation is synchronized; each sweep owns its own Frontier.
package frontier

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/katalvlaran/wikiwalk/core"
)

// ErrUnknownAlgorithm is returned by New for an unsupported ordering name.
var ErrUnknownAlgorithm = errors.New("frontier: unknown algorithm")

// Algorithm selects a Frontier implementation.
type Algorithm string

const (
	// BreadthFirst expands nodes in the order they were discovered.
	BreadthFirst Algorithm = "bfs"

	// GreedyBestFirst expands the lowest-cost node first.
	GreedyBestFirst Algorithm = "gbfs"
)

// Frontier is the set of discovered but not yet expanded nodes of one sweep.
type Frontier interface {
	// Push adds n.
	Push(n *core.Node)

	// Pop removes and returns the next node to expand, or nil when empty.
	Pop() *core.Node

	// Len returns the number of pending nodes.
	Len() int
}

// New returns the Frontier for alg.
func New(alg Algorithm) (Frontier, error) {
	switch alg {
	case BreadthFirst:
		return NewFIFO(), nil
	case GreedyBestFirst:
		return NewPriority(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
}

// FIFO is a plain first-in first-out queue.
type FIFO struct {
	queue []*core.Node
}

// NewFIFO returns an empty FIFO.
func NewFIFO() *FIFO { return &FIFO{queue: make([]*core.Node, 0, 64)} }

// Push appends n to the tail. Complexity: O(1) amortized.
func (f *FIFO) Push(n *core.Node) { f.queue = append(f.queue, n) }

// Pop removes the head. Complexity: O(1).
func (f *FIFO) Pop() *core.Node {
	if len(f.queue) == 0 {
		return nil
	}
	n := f.queue[0]
	f.queue[0] = nil // release for GC
	f.queue = f.queue[1:]

	return n
}

// Len returns the queue length.
func (f *FIFO) Len() int { return len(f.queue) }

// Priority is a min-heap on Node.Cost. Equal costs pop in insertion order,
// which keeps greedy walks reproducible under a seeded oracle.
type Priority struct {
	pq  nodePQ
	seq uint64
}

// NewPriority returns an empty Priority frontier.
func NewPriority() *Priority {
	p := &Priority{pq: make(nodePQ, 0, 64)}
	heap.Init(&p.pq)

	return p
}

// Push inserts n keyed by n.Cost. Complexity: O(log n).
func (p *Priority) Push(n *core.Node) {
	p.seq++
	heap.Push(&p.pq, &nodeItem{node: n, cost: n.Cost, seq: p.seq})
}

// Pop removes the cheapest node. Complexity: O(log n).
func (p *Priority) Pop() *core.Node {
	if p.pq.Len() == 0 {
		return nil
	}

	return heap.Pop(&p.pq).(*nodeItem).node
}

// Len returns the number of pending nodes.
func (p *Priority) Len() int { return p.pq.Len() }

// nodeItem snapshots the cost at push time; nodes are not mutated after adoption.
type nodeItem struct {
	node *core.Node
	cost float64
	seq  uint64
}

// nodePQ is a min-heap of *nodeItem ordered by (cost, seq).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}

	return pq[i].seq < pq[j].seq
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
