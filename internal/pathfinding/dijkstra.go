package pathfinding

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by ShortestPath.
var (
	// ErrNilGraph indicates that a nil *Graph was passed to ShortestPath.
	ErrNilGraph = errors.New("pathfinding: graph is nil")

	// ErrNodeOutOfRange indicates that the start or end index is not a node of the graph.
	ErrNodeOutOfRange = errors.New("pathfinding: node index out of range")

	// ErrNegativeWeight indicates that a negative edge weight was met during relaxation.
	ErrNegativeWeight = errors.New("pathfinding: negative edge weight encountered")
)

// noPredecessor marks a node that has not been reached.
const noPredecessor = -1

// PathResult is the outcome of a single-pair shortest-path query.
//
// Distance is +Inf when end is unreachable from start; Path then holds the
// end node alone.
type PathResult struct {
	Distance float64
	Path     []int
}

// Reachable reports whether a finite path was found.
func (r PathResult) Reachable() bool {
	return !math.IsInf(r.Distance, 1) && !math.IsNaN(r.Distance)
}

// ShortestPath runs Dijkstra from start and stops as soon as end is settled
// or no reachable unsettled node remains.
//
// An unreachable end is not an error: the result carries Distance=+Inf.
// Errors are returned only for invalid input (nil graph, indices out of
// range, negative weights).
//
// Complexity: O((V + E) log V) with a lazy-decrease-key binary heap.
func ShortestPath(g *Graph, start, end int) (PathResult, error) {
	if g == nil {
		return PathResult{}, ErrNilGraph
	}
	if start < 0 || start >= g.Len() {
		return PathResult{}, fmt.Errorf("%w: start=%d nodes=%d", ErrNodeOutOfRange, start, g.Len())
	}
	if end < 0 || end >= g.Len() {
		return PathResult{}, fmt.Errorf("%w: end=%d nodes=%d", ErrNodeOutOfRange, end, g.Len())
	}

	r := newRunner(g, start)
	if err := r.process(end); err != nil {
		return PathResult{}, err
	}

	return PathResult{
		Distance: r.dist[end],
		Path:     r.path(end),
	}, nil
}

// runner holds the scratch state of one Dijkstra execution.
type runner struct {
	g       *Graph
	dist    []float64 // best known distance from start
	prev    []int     // predecessor on the best known path, or noPredecessor
	visited []bool    // settled nodes
	pq      nodePQ
}

func newRunner(g *Graph, start int) *runner {
	n := g.Len()
	r := &runner{
		g:       g,
		dist:    make([]float64, n),
		prev:    make([]int, n),
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, n),
	}
	for i := 0; i < n; i++ {
		r.dist[i] = math.Inf(1)
		r.prev[i] = noPredecessor
	}
	r.dist[start] = 0
	heap.Push(&r.pq, &nodeItem{id: start, dist: 0})
	return r
}

// process settles nodes in order of distance until end is selected or the
// heap runs dry. Only reached nodes are ever pushed, so an empty heap means
// every remaining node is at +Inf.
func (r *runner) process(end int) error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id

		// Stale entry left behind by a later improvement.
		if r.visited[u] || item.dist > r.dist[u] {
			continue
		}
		if u == end {
			return nil
		}
		r.visited[u] = true

		if err := r.relax(u); err != nil {
			return err
		}
	}
	return nil
}

// relax tries to improve every neighbour of the settled node u.
func (r *runner) relax(u int) error {
	for _, e := range r.g.Nodes[u].Edges {
		if e.Weight < 0 {
			return fmt.Errorf("%w: edge %d→%d weight=%g", ErrNegativeWeight, u, e.To, e.Weight)
		}
		if e.To < 0 || e.To >= r.g.Len() {
			return fmt.Errorf("%w: edge %d→%d", ErrNodeOutOfRange, u, e.To)
		}

		// Strictly better only. NaN weights never compare less and are
		// therefore never traversed.
		candidate := r.dist[u] + e.Weight
		if !(candidate < r.dist[e.To]) {
			continue
		}
		r.dist[e.To] = candidate
		r.prev[e.To] = u
		heap.Push(&r.pq, &nodeItem{id: e.To, dist: candidate})
	}
	return nil
}

// path walks predecessor links back from end and returns them start-first.
func (r *runner) path(end int) []int {
	var rev []int
	for v := end; v != noPredecessor; v = r.prev[v] {
		rev = append(rev, v)
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// nodeItem is a heap entry: a node and the distance it was pushed with.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
