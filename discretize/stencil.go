package discretize

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/mesh"
)

// Discretization computes stencils over a fixed Grid.
type Discretization struct {
	g *mesh.Grid
}

// New returns a Discretization reading node positions from g.
// g must not be mutated while rows are being computed.
func New(g *mesh.Grid) *Discretization { return &Discretization{g: g} }

// Grid returns the underlying grid.
func (d *Discretization) Grid() *mesh.Grid { return d.g }

// ring returns the angle-sorted neighbours of n0, rotated for boundary nodes
// so that N[0] is the boundary neighbour A with the domain left of n0 → A.
func (d *Discretization) ring(n0 int) (nbrs []int, boundary bool) {
	g := d.g
	nbrs = g.AngleSortedNeighbors(n0)
	if !g.IsBoundaryNode(n0) {
		return nbrs, false
	}

	start := -1
	for k, m := range nbrs {
		e, _ := g.EdgeBetween(n0, m)
		if !g.IsBoundaryEdge(e) {
			continue
		}
		ed := g.Edges[e]
		left := ed.Cells[0]
		if ed.Nodes[0] != n0 {
			left = ed.Cells[1]
		}
		if left != mesh.NoCell {
			start = k
			break
		}
	}
	if start < 0 {
		// no cell on the domain side: roll until both ends are boundary nodes
		for k := range nbrs {
			prev := nbrs[(k+len(nbrs)-1)%len(nbrs)]
			if g.IsBoundaryNode(nbrs[k]) && g.IsBoundaryNode(prev) {
				start = k
				break
			}
		}
		if start < 0 {
			start = 0
		}
	}
	rolled := make([]int, len(nbrs))
	for k := range nbrs {
		rolled[k] = nbrs[(start+k)%len(nbrs)]
	}

	return rolled, true
}

// NodeRow returns the stencil of op at node n0. The first entry is n0 itself,
// followed by its neighbours in stencil order.
//
// Implementation:
//   - Stage 1: order the neighbour ring; M = P fans inside, P−1 on the boundary.
//   - Stage 2: signed fan areas A[m] and their total AT.
//   - Stage 3: neighbour coefficients from the (up to) two fans sharing each
//     neighbour, then the self coefficient summed over the fans.
//   - Stage 4: zero-flux correction γ for the boundary Laplacian.
//
// Errors:
//   - mesh.ErrNodeNotFound for an invalid node.
//   - ErrUnknownOperator, ErrNonFinite.
//
// Complexity: O(d log d) for node degree d.
func (d *Discretization) NodeRow(n0 int, op Operator) (Row, error) {
	if !d.g.NodeValid(n0) {
		return Row{}, fmt.Errorf("NodeRow(%d): %w", n0, mesh.ErrNodeNotFound)
	}
	if op < Laplacian || op > Dy {
		return Row{}, fmt.Errorf("NodeRow(%d): %w", n0, ErrUnknownOperator)
	}
	N, boundary := d.ring(n0)
	P := len(N)
	M := P
	if boundary {
		M = P - 1
	}
	if M <= 0 {
		return Row{}, fmt.Errorf("NodeRow(%d): %d fans: %w", n0, M, ErrNonFinite)
	}

	p0 := d.g.Nodes[n0].XY
	x0, y0 := p0.X, p0.Y
	x := make([]float64, P)
	y := make([]float64, P)
	for k, m := range N {
		x[k], y[k] = d.g.Nodes[m].XY.X, d.g.Nodes[m].XY.Y
	}

	A := make([]float64, M)
	var AT float64
	for m := 0; m < M; m++ {
		A[m] = mesh.SignedArea([]r2.Point{p0, {X: x[m], Y: y[m]}, {X: x[(m+1)%P], Y: y[(m+1)%P]}})
		AT += A[m]
	}

	alphas := make([]float64, P)
	for n := 0; n < P; n++ {
		nme := ((n-1)%M + M) % M
		nm := (n - 1 + P) % P
		np := (n + 1) % P
		var a float64
		prev := n > 0 || P == M
		next := n < M
		switch op {
		case Laplacian:
			if prev {
				a += -1 / (4 * A[nme]) * ((y[nm]-y[n])*(y0-y[nm]) + (x[n]-x[nm])*(x[nm]-x0))
			}
			if next {
				a += -1 / (4 * A[n]) * ((y[n]-y[np])*(y[np]-y0) + (x[np]-x[n])*(x0-x[np]))
			}
		case Dx:
			if prev {
				a += 1 / (2 * AT) * (y0 - y[nm])
			}
			if next {
				a += 1 / (2 * AT) * (y[np] - y0)
			}
		case Dy:
			if prev {
				a += 1 / (2 * AT) * (x[nm] - x0)
			}
			if next {
				a += 1 / (2 * AT) * (x0 - x[np])
			}
		}
		alphas[n] = a
	}

	var alpha0 float64
	for e := 0; e < M; e++ {
		ep := (e + 1) % P
		switch op {
		case Laplacian:
			alpha0 += -1 / (4 * A[e]) * ((y[e]-y[ep])*(y[e]-y[ep]) + (x[ep]-x[e])*(x[ep]-x[e]))
		case Dx:
			alpha0 += 1 / (2 * AT) * (y[e] - y[ep])
		case Dy:
			alpha0 += 1 / (2 * AT) * (x[ep] - x[e])
		}
	}

	var gamma float64
	if op == Laplacian && boundary {
		const normGrad = 0 // no-flux
		l01 := math.Hypot(x[0]-x0, y0-y[0])
		l0p := math.Hypot(x[0]-x[P-1], y0-y[P-1])
		gamma = 3 / AT * (normGrad*l01/2 + normGrad*l0p/2)
	}

	row := Row{
		Nodes:  append([]int{n0}, N...),
		Coeffs: append([]float64{alpha0}, alphas...),
		RHS:    -gamma,
	}
	for k, c := range row.Coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Row{}, fmt.Errorf("NodeRow(%d) %s: coefficient for node %d: %w", n0, op, row.Nodes[k], ErrNonFinite)
		}
	}

	return row, nil
}
