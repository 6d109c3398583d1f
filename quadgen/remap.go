// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/interp"
	"github.com/katalvlaran/quadmesh/logical"
	"github.com/katalvlaran/quadmesh/mesh"
)

// Field is the solved harmonic pair on the intermediate grid, indexed by node id.
type Field struct {
	Psi, Phi []float64
}

// allClose mirrors the usual relative+absolute float comparison.
func allClose(a, b float64) bool { return math.Abs(a-b) <= 1e-8+1e-5*math.Abs(b) }

// logicalRange returns the smallest and largest logical value over both axes.
func logicalRange(vals []mesh.Logical) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, l := range vals {
		for axis := 0; axis < 2; axis++ {
			if l.Finite(axis) {
				lo, hi = math.Min(lo, l[axis]), math.Max(hi, l[axis])
			}
		}
	}

	return lo, hi
}

// fieldTable builds the monotone lookup logical value → field value on one
// axis from the generating nodes fixed at scale s, each read at its nearest
// intermediate node. The field means are force-sorted in the direction of
// their overall trend.
func fieldTable(gen *mesh.Grid, s logical.Scale, axis int, ix *mesh.NodeIndex, field []float64) (keys, vals []float64, err error) {
	var all, at []float64
	for _, n := range gen.NodeIDs() {
		if !logical.NodeIJFixed(gen, s, n)[axis] {
			continue
		}
		near, ok := ix.Nearest(gen.Nodes[n].XY)
		if !ok {
			return nil, nil, fmt.Errorf("axis %d: empty intermediate grid: %w", axis, ErrInsufficientGroups)
		}
		all = append(all, logical.NodeIJ(gen, s, n)[axis])
		at = append(at, field[near])
	}
	keys, vals = interp.GroupMeans(all, at)
	if len(keys) < 2 {
		return nil, nil, fmt.Errorf("axis %d: %d distinct fixed values: %w", axis, len(keys), ErrInsufficientGroups)
	}
	// Force the table monotone along the trend of its end points rather than
	// a fixed direction per axis: ψ and φ can run either way depending on
	// which group received the positive pin.
	descending := vals[len(vals)-1] < vals[0]
	sort.Float64s(vals)
	if descending {
		for a, b := 0, len(vals)-1; a < b; a, b = a+1, b-1 {
			vals[a], vals[b] = vals[b], vals[a]
		}
	}

	return keys, vals, nil
}

// remap moves every node of target to the physical position whose (ψ,φ)
// matches the node's logical coordinate (Node.IJ, scale s of gen).
//
// Implementation:
//   - Stage 1: check target's logical range against gen's at scale s.
//   - Stage 2: per axis, tabulate fixed generating values against the field
//     at their nearest intermediate node (fieldTable).
//   - Stage 3: interpolate the tables at every target node.
//   - Stage 4: invert (ψ,φ) → xy with the intermediate grid's own cloud,
//     extrapolating beyond its hull.
//
// Errors:
//   - ErrScaleMismatch, ErrInsufficientGroups.
//   - interp errors (degenerate cloud, outside radius, non-finite).
func (r *run) remap(gen, gInt *mesh.Grid, f Field, target *mesh.Grid, s logical.Scale) error {
	var tgtIJ, genIJ []mesh.Logical
	for _, n := range target.NodeIDs() {
		tgtIJ = append(tgtIJ, target.Nodes[n].IJ)
	}
	for _, n := range gen.NodeIDs() {
		genIJ = append(genIJ, *logical.NodeIJ(gen, s, n))
	}
	tlo, thi := logicalRange(tgtIJ)
	glo, ghi := logicalRange(genIJ)
	if !allClose(tlo, glo) || !allClose(thi, ghi) {
		return fmt.Errorf("target range [%g, %g], generating %s range [%g, %g]: %w", tlo, thi, s, glo, ghi, ErrScaleMismatch)
	}

	ix := mesh.NewNodeIndex(gInt)
	iKeys, iPsi, err := fieldTable(gen, s, 0, ix, f.Psi)
	if err != nil {
		return err
	}
	jKeys, jPhi, err := fieldTable(gen, s, 1, ix, f.Phi)
	if err != nil {
		return err
	}

	ids := gInt.NodeIDs()
	src := make([]r2.Point, len(ids))
	img := make([]r2.Point, len(ids))
	for k, n := range ids {
		src[k] = r2.Point{X: f.Psi[n], Y: f.Phi[n]}
		img[k] = gInt.Nodes[n].XY
	}
	var iopts []interp.Option
	if r.opts.ExtrapolationRadius > 0 {
		iopts = append(iopts, interp.WithRadius(r.opts.ExtrapolationRadius))
	}
	lin, err := interp.NewLinear(src, img, iopts...)
	if err != nil {
		return err
	}

	for _, n := range target.NodeIDs() {
		ij := target.Nodes[n].IJ
		q := r2.Point{
			X: interp.Interp1(ij[0], iKeys, iPsi),
			Y: interp.Interp1(ij[1], jKeys, jPhi),
		}
		xy, err := lin.At(q)
		if err != nil {
			return fmt.Errorf("node %d at ij %v: %w", n, ij, err)
		}
		target.Nodes[n].XY = xy
	}
	r.log.Debug("remapped", "scale", s.String(), "nodes", target.NumNodes(), "i_values", len(iKeys), "j_values", len(jKeys))

	return nil
}
