// File: methods_cells.go
// Role: cell lifecycle, orientation and cell geometry.
//
// Invariants:
//   - Cell.Nodes is counter-clockwise in physical space.
//   - Edge.Cells[0] is the cell left of Nodes[0] → Nodes[1], Cells[1] the right one.

package mesh

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// AddCell adds a polygonal cell over the given corner nodes and returns its id.
// Missing edges are created; clockwise input is reversed to counter-clockwise.
//
// Implementation:
//   - Stage 1: validate ids, distinctness and non-zero area.
//   - Stage 2: check every existing edge still has a free side for this cell.
//   - Stage 3: create missing edges and attach the cell to each edge side.
//
// Errors:
//   - ErrNodeNotFound for an invalid corner.
//   - ErrBadCell for fewer than three distinct corners or zero area.
//   - ErrEdgeOccupied if an edge side already carries a cell.
//
// Complexity: O(k) for k corners.
func (g *Grid) AddCell(nodes []int) (int, error) {
	if len(nodes) < 3 {
		return NoCell, fmt.Errorf("AddCell: %w", ErrBadCell)
	}
	seen := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		if !g.NodeValid(n) {
			return NoCell, fmt.Errorf("AddCell: node %d: %w", n, ErrNodeNotFound)
		}
		if _, dup := seen[n]; dup {
			return NoCell, fmt.Errorf("AddCell: repeated node %d: %w", n, ErrBadCell)
		}
		seen[n] = struct{}{}
	}
	ring := append([]int(nil), nodes...)
	area := g.ringArea(ring)
	if area == 0 {
		return NoCell, fmt.Errorf("AddCell: zero area: %w", ErrBadCell)
	}
	if area < 0 {
		for a, b := 0, len(ring)-1; a < b; a, b = a+1, b-1 {
			ring[a], ring[b] = ring[b], ring[a]
		}
	}

	c := len(g.Cells)
	k := len(ring)
	for i := 0; i < k; i++ {
		a, b := ring[i], ring[(i+1)%k]
		if e, ok := g.EdgeBetween(a, b); ok {
			if g.Edges[e].Cells[sideOf(g.Edges[e], a)] != NoCell {
				return NoCell, fmt.Errorf("AddCell: edge %d: %w", e, ErrEdgeOccupied)
			}
		}
	}

	edges := make([]int, k)
	for i := 0; i < k; i++ {
		a, b := ring[i], ring[(i+1)%k]
		e, ok := g.EdgeBetween(a, b)
		if !ok {
			var err error
			if e, err = g.AddEdge(a, b); err != nil {
				return NoCell, fmt.Errorf("AddCell: %w", err)
			}
		}
		g.Edges[e].Cells[sideOf(g.Edges[e], a)] = c
		edges[i] = e
	}
	g.Cells = append(g.Cells, Cell{Nodes: ring, Edges: edges})

	return c, nil
}

// sideOf returns the Cells slot for a cell traversing ed starting at from.
func sideOf(ed Edge, from int) int {
	if ed.Nodes[0] == from {
		return 0
	}
	return 1
}

// CellValid reports whether c is a live cell id.
func (g *Grid) CellValid(c int) bool {
	return c >= 0 && c < len(g.Cells) && !g.Cells[c].Deleted
}

// NumCells returns the arena length, tombstones included.
func (g *Grid) NumCells() int { return len(g.Cells) }

// CellIDs returns the live cell ids in ascending order.
func (g *Grid) CellIDs() []int {
	out := make([]int, 0, len(g.Cells))
	for c := range g.Cells {
		if !g.Cells[c].Deleted {
			out = append(out, c)
		}
	}

	return out
}

// CellEdges returns the edges of c in counter-clockwise order and, per edge,
// whether its stored direction runs against the traversal (Cells[0] != c).
func (g *Grid) CellEdges(c int) (edges []int, flip []bool) {
	cell := g.Cells[c]
	edges = append([]int(nil), cell.Edges...)
	flip = make([]bool, len(edges))
	for k, e := range edges {
		flip[k] = g.Edges[e].Cells[0] != c
	}

	return edges, flip
}

// DeleteCell tombstones c and frees its edge sides. Edges and nodes stay.
func (g *Grid) DeleteCell(c int) error {
	if !g.CellValid(c) {
		return fmt.Errorf("DeleteCell(%d): %w", c, ErrCellNotFound)
	}
	for _, e := range g.Cells[c].Edges {
		cells := &g.Edges[e].Cells
		for s := range cells {
			if cells[s] == c {
				cells[s] = NoCell
			}
		}
	}
	g.Cells[c].Deleted = true

	return nil
}

// CellPoints returns the corner positions of c.
func (g *Grid) CellPoints(c int) []r2.Point {
	nodes := g.Cells[c].Nodes
	out := make([]r2.Point, len(nodes))
	for k, n := range nodes {
		out[k] = g.Nodes[n].XY
	}

	return out
}

// CellArea returns the signed area of c (positive for counter-clockwise).
func (g *Grid) CellArea(c int) float64 { return g.ringArea(g.Cells[c].Nodes) }

// CellCentroid returns the area centroid of c.
func (g *Grid) CellCentroid(c int) r2.Point { return PolygonCentroid(g.CellPoints(c)) }

func (g *Grid) ringArea(ring []int) float64 {
	pts := make([]r2.Point, len(ring))
	for k, n := range ring {
		pts[k] = g.Nodes[n].XY
	}

	return SignedArea(pts)
}

// SignedArea returns the shoelace area of a closed ring (last point joins the first).
func SignedArea(pts []r2.Point) float64 {
	var acc float64
	for k := range pts {
		acc += pts[k].Cross(pts[(k+1)%len(pts)])
	}

	return acc / 2
}

// PolygonCentroid returns the area centroid of a simple polygon, falling back
// to the vertex mean for zero area.
func PolygonCentroid(pts []r2.Point) r2.Point {
	var cx, cy, a2 float64
	for k := range pts {
		p, q := pts[k], pts[(k+1)%len(pts)]
		w := p.Cross(q)
		a2 += w
		cx += (p.X + q.X) * w
		cy += (p.Y + q.Y) * w
	}
	if a2 == 0 {
		var m r2.Point
		for _, p := range pts {
			m = m.Add(p)
		}
		return m.Mul(1 / float64(len(pts)))
	}

	return r2.Point{X: cx / (3 * a2), Y: cy / (3 * a2)}
}

// PointInPolygon reports whether p lies strictly inside the closed ring pts
// (even-odd rule; points on the ring count as outside).
func PointInPolygon(p r2.Point, pts []r2.Point) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if onSegment(p, a, b) {
			return false
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}

	return inside
}

func onSegment(p, a, b r2.Point) bool {
	if b.Sub(a).Cross(p.Sub(a)) != 0 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}
