// File: methods_nodes.go
// Role: node lifecycle and neighbourhood queries.
//
// Determinism:
//   - NodeIDs() enumerates live nodes in ascending id order.
//   - AngleSortedNeighbors() orders by polar angle, ties by node id.

package mesh

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// AddNode appends a node at xy with free logical coordinates and returns its id.
// Complexity: O(1) amortised.
func (g *Grid) AddNode(xy r2.Point) int {
	return g.AddFixedNode(xy, math.NaN(), math.NaN())
}

// AddFixedNode appends a node carrying caller-fixed logical coordinates (i, j).
// Pass NaN for a free axis.
func (g *Grid) AddFixedNode(xy r2.Point, i, j float64) int {
	g.Nodes = append(g.Nodes, Node{
		XY:      xy,
		Fixed:   Logical{i, j},
		IJ:      FreeLogical(),
		NomIJ:   FreeLogical(),
		GenEdge: NoEdge,
	})
	g.nodeEdges = append(g.nodeEdges, nil)

	return len(g.Nodes) - 1
}

// NodeValid reports whether n is a live node id.
func (g *Grid) NodeValid(n int) bool {
	return n >= 0 && n < len(g.Nodes) && !g.Nodes[n].Deleted
}

// NumNodes returns the arena length, tombstones included.
func (g *Grid) NumNodes() int { return len(g.Nodes) }

// NodeIDs returns the live node ids in ascending order.
// Complexity: O(V).
func (g *Grid) NodeIDs() []int {
	out := make([]int, 0, len(g.Nodes))
	for n := range g.Nodes {
		if !g.Nodes[n].Deleted {
			out = append(out, n)
		}
	}

	return out
}

// NodeEdges returns the live edges incident to n. The slice is shared; do not mutate.
func (g *Grid) NodeEdges(n int) []int {
	if !g.NodeValid(n) {
		return nil
	}

	return g.nodeEdges[n]
}

// Neighbors returns the nodes sharing an edge with n, in edge insertion order.
func (g *Grid) Neighbors(n int) []int {
	edges := g.NodeEdges(n)
	out := make([]int, 0, len(edges))
	for _, e := range edges {
		out = append(out, g.Other(e, n))
	}

	return out
}

// Other returns the endpoint of edge e that is not n.
func (g *Grid) Other(e, n int) int {
	nodes := g.Edges[e].Nodes
	if nodes[0] == n {
		return nodes[1]
	}

	return nodes[0]
}

// AngleSortedNeighbors returns n's neighbours ordered counter-clockwise by the
// polar angle of (neighbour − n), starting just above −π.
// Complexity: O(d log d).
func (g *Grid) AngleSortedNeighbors(n int) []int {
	nbrs := g.Neighbors(n)
	p0 := g.Nodes[n].XY
	angles := make(map[int]float64, len(nbrs))
	for _, m := range nbrs {
		d := g.Nodes[m].XY.Sub(p0)
		angles[m] = math.Atan2(d.Y, d.X)
	}
	sort.Slice(nbrs, func(a, b int) bool {
		if angles[nbrs[a]] != angles[nbrs[b]] {
			return angles[nbrs[a]] < angles[nbrs[b]]
		}
		return nbrs[a] < nbrs[b]
	})

	return nbrs
}

// IsBoundaryNode reports whether any live edge of n is a boundary edge.
func (g *Grid) IsBoundaryNode(n int) bool {
	for _, e := range g.NodeEdges(n) {
		if g.IsBoundaryEdge(e) {
			return true
		}
	}

	return false
}

// deleteNode tombstones n; callers must have removed its edges first.
func (g *Grid) deleteNode(n int) {
	g.Nodes[n].Deleted = true
	g.nodeEdges[n] = nil
}

// DeleteOrphanNodes tombstones every live node without edges and returns how many.
func (g *Grid) DeleteOrphanNodes() int {
	count := 0
	for n := range g.Nodes {
		if !g.Nodes[n].Deleted && len(g.nodeEdges[n]) == 0 {
			g.deleteNode(n)
			count++
		}
	}

	return count
}
