package pathfinding

import (
	"math"
	"sort"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
)

// Components returns the connected components of g. Each component lists
// its nodes in ascending order; components are ordered by their smallest node.
func (g *Graph) Components() [][]int {
	ds := newDisjointSet(g.Len())
	for u, node := range g.Nodes {
		for _, e := range node.Edges {
			ds.union(u, e.To)
		}
	}

	byRoot := make(map[int]int)
	var comps [][]int
	for v := 0; v < g.Len(); v++ {
		root := ds.find(v)
		idx, ok := byRoot[root]
		if !ok {
			idx = len(comps)
			byRoot[root] = idx
			comps = append(comps, nil)
		}
		comps[idx] = append(comps[idx], v)
	}
	return comps
}

// ConnectComponents joins the components of g until the graph is connected,
// adding the shortest available edge between two different components at
// each step (Kruskal over the complete distance graph, restricted to edges
// that merge components). It returns the number of edges added.
//
// BuildGraph alone only guarantees that no node is isolated; this pass is the
// stronger guarantee that every destination can be reached from the source.
// Pairs whose distance is NaN are never used.
func ConnectComponents(g *Graph, points []geo.Coordinate) int {
	n := g.Len()
	if n < 2 || len(points) != n {
		return 0
	}

	ds := newDisjointSet(n)
	for u, node := range g.Nodes {
		for _, e := range node.Edges {
			ds.union(u, e.To)
		}
	}
	if ds.sets == 1 {
		return 0
	}

	type candidate struct {
		u, v int
		d    float64
	}
	var candidates []candidate
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if ds.find(i) == ds.find(j) {
				continue
			}
			d := geo.HaversineKm(points[i], points[j])
			if math.IsNaN(d) {
				continue
			}
			candidates = append(candidates, candidate{u: i, v: j, d: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].d < candidates[j].d })

	added := 0
	for _, c := range candidates {
		if ds.sets == 1 {
			break
		}
		if ds.union(c.u, c.v) {
			g.addEdge(c.u, c.v, c.d)
			added++
		}
	}
	return added
}

// disjointSet is a union-find with path compression and union by rank.
type disjointSet struct {
	parent []int
	rank   []int
	sets   int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), rank: make([]int, n), sets: n}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(u int) int {
	for ds.parent[u] != u {
		ds.parent[u] = ds.parent[ds.parent[u]]
		u = ds.parent[u]
	}
	return u
}

// union merges the sets of u and v and reports whether they were distinct.
func (ds *disjointSet) union(u, v int) bool {
	ru, rv := ds.find(u), ds.find(v)
	if ru == rv {
		return false
	}
	switch {
	case ds.rank[ru] < ds.rank[rv]:
		ds.parent[ru] = rv
	case ds.rank[ru] > ds.rank[rv]:
		ds.parent[rv] = ru
	default:
		ds.parent[rv] = ru
		ds.rank[ru]++
	}
	ds.sets--
	return true
}
