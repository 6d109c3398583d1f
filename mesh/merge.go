// File: merge.go
// Role: stitch a second arena into g on coincident node positions.

package mesh

import "fmt"

// Merge copies every live record of other into g. A node of other within tol
// of an existing node of g is unified with it; all other records are appended.
// Edges shared after unification are reused, so two cells meeting along a
// common side end up on the two sides of one edge.
//
// The returned Renumbering maps ids of other to ids of g (-1 for tombstones).
//
// Errors:
//   - ErrEdgeOccupied if a cell of other overlaps a cell of g on the same side.
//   - ErrBadCell if unification collapses a cell.
//
// Complexity: O((V_g + V_o) log V_g + E_o + Σ|cell_o|).
func (g *Grid) Merge(other *Grid, tol float64) (Renumbering, error) {
	ix := NewNodeIndex(g)
	r := Renumbering{
		Nodes: make([]int, len(other.Nodes)),
		Edges: make([]int, len(other.Edges)),
		Cells: make([]int, len(other.Cells)),
	}

	for n, nd := range other.Nodes {
		r.Nodes[n] = -1
		if nd.Deleted {
			continue
		}
		if hits := ix.Within(nd.XY, tol); len(hits) > 0 {
			r.Nodes[n] = hits[0]
			continue
		}
		id := g.AddNode(nd.XY)
		g.Nodes[id] = nd
		r.Nodes[n] = id
	}

	for e, ed := range other.Edges {
		r.Edges[e] = -1
		if ed.Deleted {
			continue
		}
		a, b := r.Nodes[ed.Nodes[0]], r.Nodes[ed.Nodes[1]]
		if id, ok := g.EdgeBetween(a, b); ok {
			r.Edges[e] = id
			continue
		}
		id, err := g.AddEdge(a, b)
		if err != nil {
			return r, fmt.Errorf("Merge: edge %d: %w", e, err)
		}
		g.Edges[id].Delta = ed.Delta
		g.Edges[id].DIJ = ed.DIJ
		g.Edges[id].NomDIJ = ed.NomDIJ
		g.Edges[id].Bezier = ed.Bezier
		r.Edges[e] = id
	}

	for c, cell := range other.Cells {
		r.Cells[c] = -1
		if cell.Deleted {
			continue
		}
		nodes := make([]int, len(cell.Nodes))
		for k, n := range cell.Nodes {
			nodes[k] = r.Nodes[n]
		}
		id, err := g.AddCell(nodes)
		if err != nil {
			return r, fmt.Errorf("Merge: cell %d: %w", c, err)
		}
		r.Cells[c] = id
	}

	return r, nil
}
