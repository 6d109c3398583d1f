package bezier

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"

	"github.com/katalvlaran/quadmesh/mesh"
)

// rotate turns v counter-clockwise by a.
func rotate(v r2.Point, a s1.Angle) r2.Point {
	sin, cos := math.Sincos(a.Radians())
	return r2.Point{X: cos*v.X - sin*v.Y, Y: sin*v.X + cos*v.Y}
}

// heading returns the direction of v as an angle.
func heading(x, y float64) s1.Angle { return s1.Angle(math.Atan2(y, x)) }

// turn returns b − a wrapped into (−π, π].
func turn(a, b s1.Angle) s1.Angle { return (b - a).Normalized() }

// Fit fills Edge.Bezier for every live edge of g from the exact-scale
// deltas (Edge.DIJ), which must already be assigned.
//
// Every edge starts as a straight Line; nodes on the boundary cycle with two
// incident edges then get their adjacent control points rotated.
//
// Errors: the boundary-cycle errors of mesh, ErrMissingEdge.
// Complexity: O(V + E).
func Fit(g *mesh.Grid) error {
	for _, e := range g.EdgeIDs() {
		ed := &g.Edges[e]
		ed.Bezier = Line(g.Nodes[ed.Nodes[0]].XY, g.Nodes[ed.Nodes[1]].XY)
	}

	cycle, err := g.BoundaryCycle()
	if err != nil {
		return fmt.Errorf("Fit: %w", err)
	}
	edges, err := g.CycleEdges(cycle)
	if err != nil {
		return fmt.Errorf("Fit: %w: %w", ErrMissingEdge, err)
	}

	nc := len(cycle)
	for k, n := range cycle {
		if len(g.NodeEdges(n)) != 2 {
			continue
		}
		in := edges[(k-1+nc)%nc] // from the previous node into n
		out := edges[k]          // from n to the next node

		d0, dij0 := awayFrom(g, in, n)
		d1, dij1 := awayFrom(g, out, n)

		dthetaIJ := turn(heading(-dij0[0], -dij0[1]), heading(dij1[0], dij1[1]))
		dtheta := turn(heading(-d0.X, -d0.Y), heading(d1.X, d1.Y))
		thetaErr := dtheta - dthetaIJ

		p := g.Nodes[n].XY
		setControl(g, in, n, p.Add(rotate(d0.Mul(1.0/3), thetaErr/2)))
		setControl(g, out, n, p.Add(rotate(d1.Mul(1.0/3), -thetaErr/2)))
	}

	return nil
}

// awayFrom returns the physical and logical deltas of edge e oriented away from n.
func awayFrom(g *mesh.Grid, e, n int) (r2.Point, mesh.Logical) {
	ed := g.Edges[e]
	d := g.Nodes[ed.Nodes[1]].XY.Sub(g.Nodes[ed.Nodes[0]].XY)
	dij := ed.DIJ
	if ed.Nodes[0] != n {
		d = d.Mul(-1)
		dij = dij.Neg()
	}

	return d, dij
}

// setControl stores cp as the control point of edge e adjacent to node n.
func setControl(g *mesh.Grid, e, n int, cp r2.Point) {
	ed := &g.Edges[e]
	if ed.Nodes[0] == n {
		ed.Bezier[1] = cp
	} else {
		ed.Bezier[2] = cp
	}
}
