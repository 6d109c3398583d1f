// File: methods_edges.go
// Role: edge lifecycle and lookups.
//
// Determinism:
//   - NodeEdges(n) lists incident edges in insertion order.
//   - EdgeIDs() enumerates live edges in ascending id order.

package mesh

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// AddEdge joins nodes a and b and returns the new edge id.
// The edge direction is a → b; both sides start without a cell.
//
// Errors:
//   - ErrNodeNotFound if either endpoint is missing or deleted.
//   - ErrLoopNotAllowed if a == b.
//   - ErrDuplicateEdge if a live edge already joins a and b.
//
// Complexity: O(1) amortised.
func (g *Grid) AddEdge(a, b int) (int, error) {
	if !g.NodeValid(a) || !g.NodeValid(b) {
		return NoEdge, fmt.Errorf("AddEdge(%d,%d): %w", a, b, ErrNodeNotFound)
	}
	if a == b {
		return NoEdge, fmt.Errorf("AddEdge(%d,%d): %w", a, b, ErrLoopNotAllowed)
	}
	k := keyOf(a, b)
	if _, ok := g.edgeIndex[k]; ok {
		return NoEdge, fmt.Errorf("AddEdge(%d,%d): %w", a, b, ErrDuplicateEdge)
	}

	e := len(g.Edges)
	g.Edges = append(g.Edges, Edge{
		Nodes:  [2]int{a, b},
		Cells:  [2]int{NoCell, NoCell},
		Delta:  FreeLogical(),
		DIJ:    FreeLogical(),
		NomDIJ: FreeLogical(),
	})
	g.edgeIndex[k] = e
	g.nodeEdges[a] = append(g.nodeEdges[a], e)
	g.nodeEdges[b] = append(g.nodeEdges[b], e)

	return e, nil
}

// EdgeValid reports whether e is a live edge id.
func (g *Grid) EdgeValid(e int) bool {
	return e >= 0 && e < len(g.Edges) && !g.Edges[e].Deleted
}

// NumEdges returns the arena length, tombstones included.
func (g *Grid) NumEdges() int { return len(g.Edges) }

// EdgeIDs returns the live edge ids in ascending order.
func (g *Grid) EdgeIDs() []int {
	out := make([]int, 0, len(g.Edges))
	for e := range g.Edges {
		if !g.Edges[e].Deleted {
			out = append(out, e)
		}
	}

	return out
}

// EdgeBetween returns the live edge joining a and b, in either direction.
func (g *Grid) EdgeBetween(a, b int) (int, bool) {
	e, ok := g.edgeIndex[keyOf(a, b)]
	return e, ok
}

// IsBoundaryEdge reports whether e has a cell on at most one side.
func (g *Grid) IsBoundaryEdge(e int) bool {
	c := g.Edges[e].Cells
	return c[0] == NoCell || c[1] == NoCell
}

// EdgeVector returns XY[Nodes[1]] − XY[Nodes[0]].
func (g *Grid) EdgeVector(e int) r2.Point {
	n := g.Edges[e].Nodes
	return g.Nodes[n[1]].XY.Sub(g.Nodes[n[0]].XY)
}

// EdgeLength returns the physical length of e.
func (g *Grid) EdgeLength(e int) float64 { return g.EdgeVector(e).Norm() }

// deleteEdge tombstones e and unlinks it from its endpoints.
func (g *Grid) deleteEdge(e int) {
	ed := &g.Edges[e]
	for _, n := range ed.Nodes {
		inc := g.nodeEdges[n]
		for k, x := range inc {
			if x == e {
				g.nodeEdges[n] = append(inc[:k:k], inc[k+1:]...)
				break
			}
		}
	}
	delete(g.edgeIndex, keyOf(ed.Nodes[0], ed.Nodes[1]))
	ed.Deleted = true
}

// DeleteEdge removes a live edge without cells on either side.
//
// Errors:
//   - ErrEdgeNotFound if e is missing or deleted.
//   - ErrEdgeOccupied if a cell still references e.
func (g *Grid) DeleteEdge(e int) error {
	if !g.EdgeValid(e) {
		return fmt.Errorf("DeleteEdge(%d): %w", e, ErrEdgeNotFound)
	}
	if c := g.Edges[e].Cells; c[0] != NoCell || c[1] != NoCell {
		return fmt.Errorf("DeleteEdge(%d): %w", e, ErrEdgeOccupied)
	}
	g.deleteEdge(e)

	return nil
}

// DeleteOrphanEdges tombstones every live edge with no cell on either side
// and returns how many were removed.
func (g *Grid) DeleteOrphanEdges() int {
	count := 0
	for e := range g.Edges {
		ed := g.Edges[e]
		if !ed.Deleted && ed.Cells[0] == NoCell && ed.Cells[1] == NoCell {
			g.deleteEdge(e)
			count++
		}
	}

	return count
}
