// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/bezier"
	"github.com/katalvlaran/quadmesh/matrix"
	"github.com/katalvlaran/quadmesh/mesh"
)

// smooth relaxes g in place for the configured number of iterations.
//
// Each iteration solves one 2N×2N system over the stacked x and y unknowns:
//   - rigid boundary nodes are pinned;
//   - sliding boundary nodes stay on the line through their position normal
//     to the chord of their two boundary neighbours, and the edge to their
//     interior neighbour is made perpendicular to that chord;
//   - interior nodes balance their neighbours with weights inversely
//     proportional to the logical-delta weighted distances per axis.
//
// Afterwards every node on a generating edge is projected onto curve.
//
// Errors:
//   - ErrSlidingTopology, ErrDegenerateGeometry before assembly.
//   - matrix errors from the solve.
//
// Complexity: O(iterations · solve(2N)).
func (r *run) smooth(g *mesh.Grid, curve *bezier.Curve) error {
	n := g.NumNodes()
	for it := 0; it < r.opts.SmoothingIterations; it++ {
		b, err := matrix.NewBuilder(2*n, 2*n)
		if err != nil {
			return err
		}
		rhs := make([]float64, 2*n)
		for _, v := range g.NodeIDs() {
			if err = r.smoothRows(g, b, rhs, v); err != nil {
				return err
			}
		}

		res, err := matrix.Solve(b.ToCSR(), rhs, r.opts.Solver...)
		if err != nil {
			return err
		}
		r.noteSolve(stageSmooth, res)
		for _, v := range g.NodeIDs() {
			g.Nodes[v].XY = r2.Point{X: res.X[v], Y: res.X[n+v]}
		}
		for _, v := range g.NodeIDs() {
			if g.Nodes[v].GenEdge != mesh.NoEdge {
				g.Nodes[v].XY, _ = curve.Closest(g.Nodes[v].XY)
			}
		}
		r.log.Debug("smoothing pass", "iteration", it+1, "nodes", n, "residual", res.Residual, "dense", res.Dense)
	}

	return nil
}

// smoothRows writes rows v (x) and n+v (y) of the smoothing system.
func (r *run) smoothRows(g *mesh.Grid, b *matrix.Builder, rhs []float64, v int) error {
	n := g.NumNodes()
	xy := g.Nodes[v].XY

	if g.IsBoundaryNode(v) {
		if g.Nodes[v].Rigid {
			rhs[v], rhs[n+v] = xy.X, xy.Y
			return firstErr(b.Set(v, v, 1), b.Set(n+v, n+v, 1))
		}

		var bnd, inner []int
		for _, nb := range g.Neighbors(v) {
			if g.Nodes[nb].GenEdge != mesh.NoEdge {
				bnd = append(bnd, nb)
			} else {
				inner = append(inner, nb)
			}
		}
		if len(bnd) != 2 || len(inner) != 1 {
			return fmt.Errorf("node %d: %d boundary, %d interior neighbours: %w", v, len(bnd), len(inner), ErrSlidingTopology)
		}
		vec := g.Nodes[bnd[1]].XY.Sub(g.Nodes[bnd[0]].XY)
		if vec.Norm() == 0 {
			return fmt.Errorf("node %d: coincident boundary neighbours: %w", v, ErrDegenerateGeometry)
		}
		tng := vec.Normalize()
		nrm := r2.Point{X: tng.Y, Y: -tng.X}
		in := inner[0]

		rhs[v] = nrm.Dot(xy)
		rhs[n+v] = 0
		return firstErr(
			b.Set(v, v, nrm.X), b.Set(v, n+v, nrm.Y),
			b.Set(n+v, v, tng.X), b.Set(n+v, in, -tng.X),
			b.Set(n+v, n+v, tng.Y), b.Set(n+v, n+in, -tng.Y),
		)
	}

	nbrs := g.Neighbors(v)
	dists := make([]float64, len(nbrs))
	deltas := make([]mesh.Logical, len(nbrs))
	var sums mesh.Logical
	for k, nb := range nbrs {
		dists[k] = g.Nodes[nb].XY.Sub(xy).Norm()
		d := g.Nodes[v].IJ.Sub(g.Nodes[nb].IJ)
		deltas[k] = mesh.Logical{math.Abs(d[0]), math.Abs(d[1])}
		sums = sums.Add(mesh.Logical{deltas[k][0] * dists[k], deltas[k][1] * dists[k]})
	}
	scales := mesh.Logical{1 / sums[0], 1 / sums[1]}
	if !scales.Finite(0) || !scales.Finite(1) {
		return fmt.Errorf("node %d: logical-distance sums %v: %w", v, sums, ErrDegenerateGeometry)
	}

	var diag float64
	for k, nb := range nbrs {
		fac := deltas[k][0]*scales[0] + deltas[k][1]*scales[1]
		if err := firstErr(b.Add(v, nb, fac), b.Add(n+v, n+nb, fac)); err != nil {
			return err
		}
		diag -= fac
	}

	return firstErr(b.Add(v, v, diag), b.Add(n+v, n+v, diag))
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
