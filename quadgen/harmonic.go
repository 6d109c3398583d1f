// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"

	"github.com/katalvlaran/quadmesh/discretize"
	"github.com/katalvlaran/quadmesh/matrix"
	"github.com/katalvlaran/quadmesh/mesh"
)

// edgeKind classifies a boundary edge by the logical axis it keeps constant.
type edgeKind int

const (
	constI edgeKind = iota // i unchanged: ψ tangential group
	constJ                 // j unchanged: φ tangential group
	skew                   // both change
)

// Groups are the maximal boundary runs of constant i or constant j, in
// counter-clockwise order starting at a run boundary. Each group lists its
// nodes in walk order; the first is the leader. Values hold the shared i
// (for I) or j (for J).
type Groups struct {
	I, J             [][]int
	IValues, JValues []float64
}

// boundaryGroups walks the single boundary cycle of g and splits it into
// maximal runs of constant-i and constant-j edges. Skew edges end the
// current run and are reported as warnings (or an error when strict).
//
// The walk starts at the first node where the edge kind changes, so no run
// straddles the start of the cycle.
func (r *run) boundaryGroups(g *mesh.Grid) (Groups, error) {
	cycle, err := g.BoundaryCycle()
	if err != nil {
		return Groups{}, err
	}
	nc := len(cycle)
	kindOf := func(a, b int) edgeKind {
		ia, ib := g.Nodes[a].IJ, g.Nodes[b].IJ
		switch {
		case ia[0] == ib[0]:
			return constI
		case ia[1] == ib[1]:
			return constJ
		default:
			return skew
		}
	}
	// kinds[k] is the kind of the edge cycle[k-1] → cycle[k]
	kinds := make([]edgeKind, nc)
	for k := range cycle {
		kinds[k] = kindOf(cycle[(k-1+nc)%nc], cycle[k])
	}
	start := -1
	for k := range kinds {
		if kinds[k] != kinds[(k-1+nc)%nc] {
			start = k
			break
		}
	}
	if start < 0 {
		return Groups{}, fmt.Errorf("boundary of %d nodes has a single edge kind: %w", nc, ErrInsufficientGroups)
	}

	var gr Groups
	var cur *[]int
	prevKind := skew
	for m := 0; m < nc; m++ {
		k := (start + m) % nc
		n1, n2 := cycle[(k-1+nc)%nc], cycle[k]
		kind := kinds[k]
		switch {
		case kind == skew:
			cur = nil
			w := Warning{
				Kind:   NonCartesianEdge,
				Stage:  stageHarmonic,
				Nodes:  []int{n1, n2},
				Detail: fmt.Sprintf("ij %v -> %v", g.Nodes[n1].IJ, g.Nodes[n2].IJ),
			}
			if r.opts.StrictCartesian {
				return Groups{}, fmt.Errorf("%s: %w", w.Detail, ErrNonCartesianEdge)
			}
			r.warn(w)
		case cur != nil && kind == prevKind:
			*cur = append(*cur, n2)
		case kind == constI:
			gr.I = append(gr.I, []int{n1, n2})
			gr.IValues = append(gr.IValues, g.Nodes[n1].IJ[0])
			cur = &gr.I[len(gr.I)-1]
		default:
			gr.J = append(gr.J, []int{n1, n2})
			gr.JValues = append(gr.JValues, g.Nodes[n1].IJ[1])
			cur = &gr.J[len(gr.J)-1]
		}
		prevKind = kind
	}

	return gr, nil
}

// argMinMax returns the first indices of the smallest and largest values.
func argMinMax(vals []float64) (lo, hi int) {
	for k, v := range vals {
		if v < vals[lo] {
			lo = k
		}
		if v > vals[hi] {
			hi = k
		}
	}

	return lo, hi
}

// solveHarmonic computes the ψ and φ fields on g.
//
// Boundary conditions: every constant-i run is a ψ tangential group and
// every constant-j run a φ group; ψ = −1 at the leader of the lowest-i
// group and +1 at the highest; φ = +1 at the leader of the second j group.
// The Laplacian blocks are coupled through
//
//	∂ψ/∂y − ∂φ/∂x = 0,  ∂ψ/∂x + ∂φ/∂y = 0
//
// and the stacked 4N×2N system is solved in the least-squares sense. With
// ExactConstraints (the default) pinned and grouped unknowns are eliminated
// first, so pins and group equalities hold exactly and only the stencil and
// coupling rows are fitted. Without it the constraint rows are fitted along
// with the rest and may be violated on non-rectangular domains.
//
// Errors:
//   - ErrInsufficientGroups without two distinct i values or two j groups.
//   - ErrNonCartesianEdge in strict mode.
//   - discretize and matrix errors.
func (r *run) solveHarmonic(g *mesh.Grid) (psi, phi []float64, err error) {
	gr, err := r.boundaryGroups(g)
	if err != nil {
		return nil, nil, err
	}
	if len(gr.I) < 2 || len(gr.J) < 2 {
		return nil, nil, fmt.Errorf("%d i-groups, %d j-groups: %w", len(gr.I), len(gr.J), ErrInsufficientGroups)
	}
	lo, hi := argMinMax(gr.IValues)
	if gr.IValues[lo] == gr.IValues[hi] {
		return nil, nil, fmt.Errorf("all i-groups at i=%g: %w", gr.IValues[lo], ErrInsufficientGroups)
	}
	iDirichlet := map[int]float64{gr.I[lo][0]: -1, gr.I[hi][0]: 1}
	jDirichlet := map[int]float64{gr.J[1][0]: 1}

	nd := discretize.New(g)
	lapPsi, bPsi, err := nd.ConstructMatrix(discretize.Laplacian, iDirichlet, gr.I)
	if err != nil {
		return nil, nil, err
	}
	lapPhi, bPhi, err := nd.ConstructMatrix(discretize.Laplacian, jDirichlet, gr.J)
	if err != nil {
		return nil, nil, err
	}
	dx, _, err := nd.ConstructMatrix(discretize.Dx, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	dy, _, err := nd.ConstructMatrix(discretize.Dy, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	big, err := matrix.Bmat([][]*matrix.CSR{
		{lapPsi, nil},
		{nil, lapPhi},
		{dy, dx.Scale(-1)},
		{dx, dy},
	})
	if err != nil {
		return nil, nil, err
	}
	n := g.NumNodes()
	rhs := make([]float64, 0, 4*n)
	rhs = append(rhs, bPsi...)
	rhs = append(rhs, bPhi...)
	rhs = append(rhs, make([]float64, 2*n)...)

	r.log.Debug("harmonic system", "rows", big.Rows(), "cols", big.Cols(), "nnz", big.NNZ(),
		"i_groups", len(gr.I), "j_groups", len(gr.J), "exact_constraints", r.opts.ExactConstraints)
	if !r.opts.ExactConstraints {
		res, err := matrix.Solve(big, rhs, r.opts.Solver...)
		if err != nil {
			return nil, nil, err
		}
		r.noteSolve(stageHarmonic, res)

		return res.X[:n], res.X[n:], nil
	}

	elim := newElimination(2 * n)
	for node, v := range iDirichlet {
		elim.pin(node, v)
	}
	for node, v := range jDirichlet {
		elim.pin(n+node, v)
	}
	for _, grp := range gr.I {
		elim.group(grp, 0)
	}
	for _, grp := range gr.J {
		elim.group(grp, n)
	}
	if elim.resolve() == 0 {
		x := elim.expand(nil)
		return x[:n], x[n:], nil
	}
	red, redRHS, err := elim.reduce(big, rhs)
	if err != nil {
		return nil, nil, err
	}
	r.log.Debug("harmonic reduced", "rows", red.Rows(), "cols", red.Cols())
	res, err := matrix.Solve(red, redRHS, r.opts.Solver...)
	if err != nil {
		return nil, nil, err
	}
	r.noteSolve(stageHarmonic, res)
	x := elim.expand(res.X)

	return x[:n], x[n:], nil
}
