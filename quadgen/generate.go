// SPDX-License-Identifier: MIT

package quadgen

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/quadmesh/bezier"
	"github.com/katalvlaran/quadmesh/interp"
	"github.com/katalvlaran/quadmesh/logical"
	"github.com/katalvlaran/quadmesh/mesh"
)

// Result holds the grids and fields of one generation run.
type Result struct {
	// RunID tags every log record of the run.
	RunID string

	// Gen is the prepared copy of the generating polygon (logical fields,
	// deltas and Bezier control points filled in).
	Gen *mesh.Grid

	// Intermediate is the smoothed nominal-scale grid the fields live on.
	// Nil for stitched multi-cell results; see Cells.
	Intermediate *mesh.Grid

	// Field holds ψ and φ by Intermediate node id.
	Field Field

	// Final is the output grid. Node.IJ holds exact-scale logical coordinates.
	Final *mesh.Grid

	// Cells holds the per-cell results of GenerateCells.
	Cells []*Result

	// Warnings are the recoverable conditions met during the run.
	Warnings []Warning
}

// Prepare copies pg and runs only the logical-coordinate stages: exact
// coordinates and deltas, then the nominal frame. The returned grid is what
// Generate works on.
//
// Errors: mesh.FromPlanarGraph errors, logical errors (no fixed value,
// non-closing deltas), boundary-cycle errors.
func Prepare(pg mesh.PlanarGraph, opts ...Option) (*mesh.Grid, error) {
	r := newRun(gatherOptions(opts...))
	gen, err := mesh.FromPlanarGraph(pg)
	if err != nil {
		return nil, stageErrorf(stagePrepare, err)
	}
	if err = r.timed(stagePrepare, func() error { return r.prepare(gen) }); err != nil {
		return nil, err
	}

	return gen, nil
}

func (r *run) prepare(gen *mesh.Grid) error {
	logical.Coalesce(gen)
	if err := logical.FillInterp(gen, logical.Exact); err != nil {
		return err
	}
	logical.EdgeDeltas(gen, logical.Exact)
	if err := logical.ValidateClosure(gen, logical.Exact, r.opts.ClosureTolerance); err != nil {
		return err
	}

	if err := logical.CoalesceNominal(gen, r.opts.NominalResolution, r.opts.MinLogicalSteps); err != nil {
		return err
	}
	if err := logical.FillInterp(gen, logical.Nominal); err != nil {
		return err
	}
	logical.EdgeDeltas(gen, logical.Nominal)

	return logical.ValidateClosure(gen, logical.Nominal, r.opts.ClosureTolerance)
}

// Generate fills a single-cell generating polygon with a near-orthogonal
// quad grid.
//
// Implementation:
//   - Stage 1: Prepare (exact and nominal logical coordinates).
//   - Stage 2: Bezier boundary fit on the exact deltas.
//   - Stage 3: nominal-scale intermediate grid, mapped into the polygon.
//   - Stage 4: sliding-boundary smoothing against the Bezier curve.
//   - Stage 5: ψ/φ harmonic solve on the intermediate grid.
//   - Stage 6: anisotropic: exact-scale grid remapped through ψ/φ;
//     otherwise the intermediate grid itself is remapped and its logical
//     coordinates converted to the exact frame (RemapIJ).
//
// ctx is checked between stages.
//
// Errors: see the package documentation; every error is wrapped with the
// failing stage.
func Generate(ctx context.Context, pg mesh.PlanarGraph, opts ...Option) (*Result, error) {
	r := newRun(gatherOptions(opts...))
	gen, err := mesh.FromPlanarGraph(pg)
	if err != nil {
		return nil, stageErrorf(stagePrepare, err)
	}
	if err = r.timed(stagePrepare, func() error { return r.prepare(gen) }); err != nil {
		return nil, err
	}
	switch cells := gen.CellIDs(); len(cells) {
	case 0:
		return nil, stageErrorf(stagePrepare, mesh.ErrNoCycle)
	case 1:
	default:
		return nil, stageErrorf(stagePrepare, fmt.Errorf("%d cells: %w", len(cells), ErrMultipleCells))
	}

	res, err := r.generate(ctx, gen)
	if err != nil {
		return nil, err
	}
	res.Warnings = r.warnings

	return res, nil
}

// generate runs stages 2–6 on a prepared single-cell gen.
func (r *run) generate(ctx context.Context, gen *mesh.Grid) (*Result, error) {
	res := &Result{RunID: r.id, Gen: gen}
	var curve *bezier.Curve

	stages := []struct {
		name string
		fn   func() error
	}{
		{stageBezier, func() (err error) {
			if err = bezier.Fit(gen); err != nil {
				return err
			}
			curve, err = bezier.NewCurve(gen, r.opts.BezierSamples)
			return err
		}},
		{stageIntermediate, func() (err error) {
			res.Intermediate, err = buildIntermediate(gen, logical.Nominal, physicalCoords, r.opts)
			return err
		}},
		{stageSmooth, func() error { return r.smooth(res.Intermediate, curve) }},
		{stageHarmonic, func() (err error) {
			res.Field.Psi, res.Field.Phi, err = r.solveHarmonic(res.Intermediate)
			return err
		}},
		{stageRemap, func() (err error) {
			if r.opts.Anisotropic {
				if res.Final, err = buildIntermediate(gen, logical.Exact, logicalCoords, r.opts); err != nil {
					return err
				}
				return r.remap(gen, res.Intermediate, res.Field, res.Final, logical.Exact)
			}
			res.Final = res.Intermediate.Copy()
			return r.remap(gen, res.Intermediate, res.Field, res.Final, logical.Nominal)
		}},
		{stageRemapIJ, func() error {
			if r.opts.Anisotropic {
				return nil
			}
			ij, err := r.remapIJ(gen, res.Final)
			if err != nil {
				return err
			}
			for _, n := range res.Final.NodeIDs() {
				res.Final.Nodes[n].IJ = ij[n]
			}
			return nil
		}},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, stageErrorf(st.name, err)
		}
		if err := r.timed(st.name, st.fn); err != nil {
			return nil, err
		}
	}
	r.log.Info("generated grid",
		"nodes", res.Final.NumNodes(), "cells", len(res.Final.CellIDs()),
		"intermediate_nodes", res.Intermediate.NumNodes(), "warnings", len(r.warnings))

	return res, nil
}

// IntermediateGrid builds the scale-s quad grid of a prepared gen, mapped
// into the polygon by linear extrapolation from its vertices.
func IntermediateGrid(gen *mesh.Grid, s logical.Scale, opts ...Option) (*mesh.Grid, error) {
	g, err := buildIntermediate(gen, s, physicalCoords, gatherOptions(opts...))
	if err != nil {
		return nil, stageErrorf(stageIntermediate, err)
	}

	return g, nil
}

// LogicalGrid builds the scale-s quad grid of a prepared gen with XY equal
// to the logical coordinates.
func LogicalGrid(gen *mesh.Grid, s logical.Scale, opts ...Option) (*mesh.Grid, error) {
	g, err := buildIntermediate(gen, s, logicalCoords, gatherOptions(opts...))
	if err != nil {
		return nil, stageErrorf(stageIntermediate, err)
	}

	return g, nil
}

// Smooth relaxes g in place against the sampled Bezier boundary of the
// prepared, fitted gen. It returns the warnings of the solves.
func Smooth(gen, g *mesh.Grid, opts ...Option) ([]Warning, error) {
	r := newRun(gatherOptions(opts...))
	curve, err := bezier.NewCurve(gen, r.opts.BezierSamples)
	if err != nil {
		return nil, stageErrorf(stageSmooth, err)
	}
	if err = r.smooth(g, curve); err != nil {
		return nil, stageErrorf(stageSmooth, err)
	}

	return r.warnings, nil
}

// SolveHarmonic computes ψ and φ on an intermediate grid.
func SolveHarmonic(g *mesh.Grid, opts ...Option) (Field, []Warning, error) {
	r := newRun(gatherOptions(opts...))
	psi, phi, err := r.solveHarmonic(g)
	if err != nil {
		return Field{}, r.warnings, stageErrorf(stageHarmonic, err)
	}

	return Field{Psi: psi, Phi: phi}, r.warnings, nil
}

// Remap repositions target (logical coordinates in Node.IJ at scale s of
// gen) through the field solved on intermediate. Only target is modified.
func Remap(gen, intermediate *mesh.Grid, f Field, target *mesh.Grid, s logical.Scale, opts ...Option) error {
	r := newRun(gatherOptions(opts...))
	if err := r.remap(gen, intermediate, f, target, s); err != nil {
		return stageErrorf(stageRemap, err)
	}

	return nil
}

// Validate checks the final grid: every node position finite and every cell
// counter-clockwise with positive area.
func (res *Result) Validate() error {
	if res.Final == nil {
		return fmt.Errorf("Validate: no final grid: %w", mesh.ErrNoCycle)
	}
	for _, n := range res.Final.NodeIDs() {
		p := res.Final.Nodes[n].XY
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("Validate: node %d at %v: %w", n, p, ErrNonFiniteResult)
		}
	}
	for _, c := range res.Final.CellIDs() {
		if a := res.Final.CellArea(c); !(a > 0) {
			return fmt.Errorf("Validate: cell %d area %g: %w", c, a, ErrInvertedCell)
		}
	}

	return nil
}

// CheckMonotone groups field by equal keys and reports whether the group
// means are strictly monotone (either direction) in key order.
//
// Errors: ErrNotMonotone, ErrInsufficientGroups for fewer than two keys.
func CheckMonotone(keys, field []float64) error {
	uniq, means := interp.GroupMeans(keys, field)
	if len(uniq) < 2 {
		return fmt.Errorf("CheckMonotone: %d distinct keys: %w", len(uniq), ErrInsufficientGroups)
	}
	up := means[1] > means[0]
	for k := 1; k < len(means); k++ {
		if (up && !(means[k] > means[k-1])) || (!up && !(means[k] < means[k-1])) {
			return fmt.Errorf("CheckMonotone: key %g mean %g after %g: %w", uniq[k], means[k], means[k-1], ErrNotMonotone)
		}
	}

	return nil
}

// CheckFields applies CheckMonotone to ψ against the intermediate i
// coordinate and φ against j.
func (res *Result) CheckFields() error {
	if res.Intermediate == nil {
		return fmt.Errorf("CheckFields: no intermediate grid: %w", ErrInsufficientGroups)
	}
	var is, js, psi, phi []float64
	for _, n := range res.Intermediate.NodeIDs() {
		ij := res.Intermediate.Nodes[n].IJ
		is, js = append(is, ij[0]), append(js, ij[1])
		psi, phi = append(psi, res.Field.Psi[n]), append(phi, res.Field.Phi[n])
	}
	if err := CheckMonotone(is, psi); err != nil {
		return fmt.Errorf("psi: %w", err)
	}
	if err := CheckMonotone(js, phi); err != nil {
		return fmt.Errorf("phi: %w", err)
	}

	return nil
}
