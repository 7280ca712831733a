package pathfinding

import (
	"math"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
)

// DefaultMaxEdgeKm is the default proximity threshold between two points.
const DefaultMaxEdgeKm = 5.0

// Edge is one direction of an undirected, weighted connection.
type Edge struct {
	To     int     // target node index
	Weight float64 // haversine distance in km
}

// Node holds the edges leaving a node, in insertion order.
type Node struct {
	Edges []Edge
}

// Graph is an undirected proximity graph keyed by node index.
// Every edge is stored in both endpoints' edge lists with equal weight.
type Graph struct {
	Nodes []Node
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.Nodes {
		n += len(node.Edges)
	}
	return n / 2
}

// IsolatedNodes returns the indices of nodes with no edges.
func (g *Graph) IsolatedNodes() []int {
	var isolated []int
	for i, node := range g.Nodes {
		if len(node.Edges) == 0 {
			isolated = append(isolated, i)
		}
	}
	return isolated
}

// HasEdge reports whether an edge u→v exists.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= len(g.Nodes) {
		return false
	}
	for _, e := range g.Nodes[u].Edges {
		if e.To == v {
			return true
		}
	}
	return false
}

// addEdge inserts the symmetric pair u→v, v→u.
func (g *Graph) addEdge(u, v int, w float64) {
	g.Nodes[u].Edges = append(g.Nodes[u].Edges, Edge{To: v, Weight: w})
	g.Nodes[v].Edges = append(g.Nodes[v].Edges, Edge{To: u, Weight: w})
}

// BuildGraph builds the proximity graph over points.
//
// Every unordered pair within maxEdgeKm is connected. Afterwards each node
// that is still isolated is connected to its globally nearest other node,
// whatever the distance. Ties go to the lowest index. A node whose distance
// to every other node is NaN stays isolated.
//
// Two isolated nodes that are each other's nearest neighbour end up connected
// only to each other; see ConnectComponents.
//
// Complexity: O(N²) haversine evaluations.
func BuildGraph(points []geo.Coordinate, maxEdgeKm float64) *Graph {
	n := len(points)
	g := &Graph{Nodes: make([]Node, n)}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := geo.HaversineKm(points[i], points[j])
			if d <= maxEdgeKm {
				g.addEdge(i, j, d)
			}
		}
	}

	// Decide every isolated node against the completed pairwise pass, so the
	// set of fallback edges does not depend on node order.
	isolated := g.IsolatedNodes()
	for _, i := range isolated {
		nearest, d := nearestNode(points, i)
		if nearest < 0 || g.HasEdge(i, nearest) {
			continue
		}
		g.addEdge(i, nearest, d)
	}

	return g
}

// nearestNode returns the index of the point closest to points[i] and its
// distance, or -1 if no other point has a comparable distance.
func nearestNode(points []geo.Coordinate, i int) (int, float64) {
	nearest := -1
	best := math.Inf(1)
	for j := range points {
		if j == i {
			continue
		}
		if d := geo.HaversineKm(points[i], points[j]); d < best {
			best = d
			nearest = j
		}
	}
	return nearest, best
}
