// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/interp"
	"github.com/katalvlaran/quadmesh/logical"
	"github.com/katalvlaran/quadmesh/mesh"
)

// RemapIJ maps the logical coordinates of g (Node.IJ, on the nominal frame
// of the prepared gen) to gen's exact frame and returns them by node id
// (tombstones get free values). gen and g are not modified.
//
// Per axis, every generating node fixed on that axis is matched to its
// nearest node of g; the fixed value then spreads along the g grid line of
// constant coordinate in both directions. Values not reached this way are
// interpolated linearly over the reached ones in g's logical frame.
//
// Errors:
//   - ErrIncompatibleIJ when two different values reach the same node.
//   - interp errors when the reached nodes do not span a triangle.
func RemapIJ(gen, g *mesh.Grid, opts ...Option) ([]mesh.Logical, error) {
	r := newRun(gatherOptions(opts...))
	out, err := r.remapIJ(gen, g)
	if err != nil {
		return nil, stageErrorf(stageRemapIJ, err)
	}

	return out, nil
}

func (r *run) remapIJ(gen, g *mesh.Grid) ([]mesh.Logical, error) {
	byIJ := make(map[mesh.Logical]int, g.NumNodes())
	for _, n := range g.NodeIDs() {
		byIJ[g.Nodes[n].IJ] = n
	}
	out := make([]mesh.Logical, g.NumNodes())
	for n := range out {
		out[n] = mesh.FreeLogical()
	}

	ix := mesh.NewNodeIndex(g)
	for axis := 0; axis < 2; axis++ {
		for _, gn := range gen.NodeIDs() {
			if !logical.NodeIJFixed(gen, logical.Exact, gn)[axis] {
				continue
			}
			val := gen.Nodes[gn].IJ[axis]
			n, ok := ix.Nearest(gen.Nodes[gn].XY)
			if !ok {
				return nil, fmt.Errorf("empty grid: %w", mesh.ErrNodeNotFound)
			}
			if d := g.Nodes[n].XY.Sub(gen.Nodes[gn].XY).Norm(); d > r.opts.MergeTolerance {
				r.warn(Warning{
					Kind:   LooseGenMatch,
					Stage:  stageRemapIJ,
					Nodes:  []int{n},
					Detail: fmt.Sprintf("generating node %d is %g away", gn, d),
				})
			}
			if err := assignIJ(out, n, axis, val); err != nil {
				return nil, err
			}

			for _, incr := range []float64{1, -1} {
				trav := g.Nodes[n].IJ
				for {
					trav[1-axis] += incr
					m, ok := byIJ[trav]
					if !ok {
						break
					}
					if err := assignIJ(out, m, axis, val); err != nil {
						return nil, err
					}
				}
			}
		}

		var src, vals, missing []r2.Point
		var missingIDs []int
		for _, n := range g.NodeIDs() {
			p := g.Nodes[n].IJ.Point()
			if out[n].Finite(axis) {
				src = append(src, p)
				vals = append(vals, r2.Point{X: out[n][axis]})
			} else {
				missing = append(missing, p)
				missingIDs = append(missingIDs, n)
			}
		}
		if len(missing) == 0 {
			continue
		}
		lin, err := interp.NewLinear(src, vals)
		if err != nil {
			return nil, fmt.Errorf("axis %d: %w", axis, err)
		}
		filled, err := lin.AtAll(missing)
		if err != nil {
			return nil, fmt.Errorf("axis %d: %w", axis, err)
		}
		for k, n := range missingIDs {
			out[n][axis] = filled[k].X
		}
	}

	return out, nil
}

func assignIJ(out []mesh.Logical, n, axis int, val float64) error {
	if out[n].Finite(axis) {
		if out[n][axis] != val {
			return fmt.Errorf("node %d axis %d: %g vs %g: %w", n, axis, out[n][axis], val, ErrIncompatibleIJ)
		}
		return nil
	}
	out[n][axis] = val

	return nil
}
