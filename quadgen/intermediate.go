// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/interp"
	"github.com/katalvlaran/quadmesh/logical"
	"github.com/katalvlaran/quadmesh/mesh"
)

// coordMode selects the physical coordinates of a freshly built patch.
type coordMode int

const (
	// physicalCoords maps patch nodes into the polygon by extrapolating the
	// generating vertices' logical → physical pairs.
	physicalCoords coordMode = iota
	// logicalCoords leaves XY equal to the logical coordinate.
	logicalCoords
)

// buildIntermediate fills every live cell of gen with a rectilinear quad
// patch in the scale-s logical frame.
//
// Node.IJ of the result holds the node's logical coordinate at scale s,
// Node.Rigid marks coordinates equal to some generating node's, and
// Node.GenEdge names the generating edge under each boundary node.
//
// Implementation (per cell):
//   - Stage 1: orient the cell's edge deltas counter-clockwise and
//     accumulate them from the first corner; the sum must close.
//   - Stage 2: add the lattice spanning the logical bounding box.
//   - Stage 3: optionally map XY by linear extrapolation from the corners.
//   - Stage 4: drop cells whose logical centroid is not inside the logical
//     polygon, then orphans.
//   - Stage 5: rigid flags and generating-edge matching.
//
// Errors:
//   - logical.ErrNonClosingCycle for deltas that do not close.
//   - ErrUnmatchedBoundaryNode when a boundary node lies on no generating edge.
//   - interp errors for a degenerate corner cloud.
//
// Complexity: O(V log V) per cell.
func buildIntermediate(gen *mesh.Grid, s logical.Scale, mode coordMode, o Options) (*mesh.Grid, error) {
	g := mesh.NewGrid()

	rigid := make(map[mesh.Logical]bool)
	for _, n := range gen.NodeIDs() {
		rigid[*logical.NodeIJ(gen, s, n)] = true
	}

	for _, c := range gen.CellIDs() {
		localEdges, flip := gen.CellEdges(c)
		k := len(localEdges)
		ijs := make([]mesh.Logical, k+1)
		xys := make([]r2.Point, k)
		starts := make([]int, k)
		for m, e := range localEdges {
			ed := gen.Edges[e]
			a, dij := ed.Nodes[0], *logical.EdgeDIJ(gen, s, e)
			if flip[m] {
				a, dij = ed.Nodes[1], dij.Neg()
			}
			starts[m] = a
			xys[m] = gen.Nodes[a].XY
			if m == 0 {
				ijs[0] = *logical.NodeIJ(gen, s, a)
			}
			ijs[m+1] = ijs[m].Add(dij)
		}
		if d := ijs[k].Sub(ijs[0]); math.Abs(d[0]) > o.ClosureTolerance || math.Abs(d[1]) > o.ClosureTolerance {
			return nil, fmt.Errorf("cell %d at node %d: deltas sum to %v: %w", c, starts[0], d, logical.ErrNonClosingCycle)
		}
		ijs = ijs[:k]

		lo := r2.Point{X: math.Inf(1), Y: math.Inf(1)}
		hi := r2.Point{X: math.Inf(-1), Y: math.Inf(-1)}
		poly := make([]r2.Point, k)
		for m, l := range ijs {
			poly[m] = l.Point()
			lo = r2.Point{X: math.Min(lo.X, l[0]), Y: math.Min(lo.Y, l[1])}
			hi = r2.Point{X: math.Max(hi.X, l[0]), Y: math.Max(hi.Y, l[1])}
		}
		size := hi.Sub(lo)
		patch, err := g.AddRectilinear(lo, hi, int(1+size.X), int(1+size.Y))
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", c, err)
		}

		var pnodes []int
		for _, col := range patch.Nodes {
			pnodes = append(pnodes, col...)
		}
		for _, n := range pnodes {
			g.Nodes[n].IJ = mesh.Logical{g.Nodes[n].XY.X, g.Nodes[n].XY.Y}
		}

		if mode == physicalCoords {
			lin, err := interp.NewLinear(poly, xys)
			if err != nil {
				return nil, fmt.Errorf("cell %d: %w", c, err)
			}
			for _, n := range pnodes {
				xy, err := lin.At(g.Nodes[n].IJ.Point())
				if err != nil {
					return nil, fmt.Errorf("cell %d node %d: %w", c, n, err)
				}
				g.Nodes[n].XY = xy
			}
		}

		for _, col := range patch.Cells {
			for _, cc := range col {
				var centroid r2.Point
				nodes := g.Cells[cc].Nodes
				for _, n := range nodes {
					centroid = centroid.Add(g.Nodes[n].IJ.Point())
				}
				centroid = centroid.Mul(1 / float64(len(nodes)))
				if !mesh.PointInPolygon(centroid, poly) {
					if err = g.DeleteCell(cc); err != nil {
						return nil, fmt.Errorf("cell %d: %w", c, err)
					}
				}
			}
		}
		g.DeleteOrphanEdges()
		g.DeleteOrphanNodes()

		for _, n := range pnodes {
			if g.NodeValid(n) && rigid[g.Nodes[n].IJ] {
				g.Nodes[n].Rigid = true
			}
		}

		if err = matchGenEdges(g, pnodes, ijs, localEdges, o.GenEdgeTolerance); err != nil {
			return nil, fmt.Errorf("cell %d: %w", c, err)
		}
	}
	g.Renumber()

	return g, nil
}

// matchGenEdges sets GenEdge for the boundary nodes among pnodes to the first
// local generating edge whose logical bounding box holds the node and whose
// line passes within tol.
func matchGenEdges(g *mesh.Grid, pnodes []int, ijs []mesh.Logical, localEdges []int, tol float64) error {
	const slack = 1e-9
	k := len(ijs)
	for _, n := range pnodes {
		if !g.NodeValid(n) || !g.IsBoundaryNode(n) {
			continue
		}
		p := g.Nodes[n].IJ
		matched := false
		for m := 0; m < k; m++ {
			a, b := ijs[m], ijs[(m+1)%k]
			if p[0] < math.Min(a[0], b[0])-slack || p[0] > math.Max(a[0], b[0])+slack ||
				p[1] < math.Min(a[1], b[1])-slack || p[1] > math.Max(a[1], b[1])+slack {
				continue
			}
			if lineDistance(p.Point(), a.Point(), b.Point()) < tol {
				g.Nodes[n].GenEdge = localEdges[m]
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("node %d at %v: %w", n, p, ErrUnmatchedBoundaryNode)
		}
	}

	return nil
}

// lineDistance is the distance from p to the line through a and b.
func lineDistance(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	if l := ab.Norm(); l > 0 {
		return math.Abs(ab.Cross(p.Sub(a))) / l
	}

	return p.Sub(a).Norm()
}
