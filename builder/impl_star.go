// SPDX-License-Identifier: MIT
// Package: quadmesh/builder
//
// impl_star.go: seeded random star polygons for property tests.
//
// Contract:
//   • n ≥ 3 vertices at equal angular steps, radius uniform in [rmin, rmax].
//   • Vertex 0 is fixed at logical (0,0) on both axes; every other vertex is
//     fixed per axis with probability cfg.fixedProb to an integer in [−n, n].
//   • Requires an RNG (WithSeed/WithRand).
//
// Determinism:
//   • Fully determined by the RNG state; draws happen in vertex order.

package builder

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/mesh"
)

const (
	methodRandomStar = "RandomStar"
	minStarNodes     = 3
)

// RandomStar returns a Constructor for a single-cell star-shaped polygon.
func RandomStar(n int, rmin, rmax float64) Constructor {
	return func(g *mesh.Grid, cfg builderConfig) error {
		if n < minStarNodes || !(rmin > 0) || rmax < rmin {
			return fmt.Errorf("%s: n=%d r=[%g,%g]: %w", methodRandomStar, n, rmin, rmax, ErrBadSize)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomStar, ErrNeedRandSource)
		}

		ij := make([]mesh.Logical, n)
		xy := make([]r2.Point, n)
		for k := 0; k < n; k++ {
			theta := 2 * math.Pi * float64(k) / float64(n)
			r := cfg.scale * (rmin + (rmax-rmin)*cfg.rng.Float64())
			xy[k] = r2.Point{X: cfg.origin.X + r*math.Cos(theta), Y: cfg.origin.Y + r*math.Sin(theta)}
			ij[k] = mesh.FreeLogical()
			for axis := 0; axis < 2; axis++ {
				if k == 0 {
					ij[k][axis] = 0
					continue
				}
				if cfg.rng.Float64() < cfg.fixedProb {
					ij[k][axis] = float64(cfg.rng.Intn(2*n+1) - n)
				}
			}
		}
		_, err := addRing(g, methodRandomStar, ij, xy)

		return err
	}
}
