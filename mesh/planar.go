// File: planar.go
// Role: the read-only collaborator interface and the defensive copy into an arena.

package mesh

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// PlanarGraph is the read-only view of a planar node/edge/cell mesh.
// Ids are dense in [0, Num*()); invalid ids are tombstones.
// *Grid implements it.
type PlanarGraph interface {
	NumNodes() int
	NodeValid(n int) bool
	NodeXY(n int) r2.Point
	// NodeFixed returns the caller-fixed logical coordinates; NaN marks a free axis.
	NodeFixed(n int) Logical

	NumEdges() int
	EdgeValid(e int) bool
	EdgeNodes(e int) [2]int
	// EdgeDelta returns a logical delta override; NaN axes are derived.
	EdgeDelta(e int) Logical

	NumCells() int
	CellValid(c int) bool
	CellNodes(c int) []int
}

var _ PlanarGraph = (*Grid)(nil)

// NodeXY returns the physical position of n.
func (g *Grid) NodeXY(n int) r2.Point { return g.Nodes[n].XY }

// NodeFixed returns the caller-fixed logical coordinates of n.
func (g *Grid) NodeFixed(n int) Logical { return g.Nodes[n].Fixed }

// EdgeNodes returns the endpoints of e.
func (g *Grid) EdgeNodes(e int) [2]int { return g.Edges[e].Nodes }

// EdgeDelta returns the logical delta override of e.
func (g *Grid) EdgeDelta(e int) Logical { return g.Edges[e].Delta }

// CellNodes returns the counter-clockwise corners of c.
func (g *Grid) CellNodes(c int) []int { return g.Cells[c].Nodes }

// FromPlanarGraph copies pg into a fresh Grid, preserving node, edge and cell
// ids. Invalid ids become tombstones. A *Grid input is deep-copied as is.
//
// Errors:
//   - construction errors of AddEdge/AddCell (duplicate edges, occupied sides).
//
// Complexity: O(V + E + Σ|cell|).
func FromPlanarGraph(pg PlanarGraph) (*Grid, error) {
	if g, ok := pg.(*Grid); ok {
		return g.Copy(), nil
	}

	g := NewGrid()
	for n := 0; n < pg.NumNodes(); n++ {
		if !pg.NodeValid(n) {
			g.AddNode(r2.Point{})
			g.Nodes[n].Deleted = true
			continue
		}
		f := pg.NodeFixed(n)
		g.AddFixedNode(pg.NodeXY(n), f[0], f[1])
	}
	for e := 0; e < pg.NumEdges(); e++ {
		if !pg.EdgeValid(e) {
			g.Edges = append(g.Edges, Edge{Nodes: [2]int{-1, -1}, Cells: [2]int{NoCell, NoCell}, Deleted: true})
			continue
		}
		ends := pg.EdgeNodes(e)
		id, err := g.AddEdge(ends[0], ends[1])
		if err != nil {
			return nil, fmt.Errorf("FromPlanarGraph: edge %d: %w", e, err)
		}
		g.Edges[id].Delta = pg.EdgeDelta(e)
	}
	for c := 0; c < pg.NumCells(); c++ {
		if !pg.CellValid(c) {
			g.Cells = append(g.Cells, Cell{Deleted: true})
			continue
		}
		if _, err := g.AddCell(pg.CellNodes(c)); err != nil {
			return nil, fmt.Errorf("FromPlanarGraph: cell %d: %w", c, err)
		}
	}

	return g, nil
}
