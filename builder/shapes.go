// SPDX-License-Identifier: MIT
// Package: quadmesh/builder
//
// shapes.go: deterministic generating polygons.
//
// Contract:
//   • Every corner carries fixed logical coordinates on both axes.
//   • Corners are emitted counter-clockwise starting at logical (0,0).

package builder

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/mesh"
)

const (
	methodRectangle = "Rectangle"
	methodTrapezoid = "Trapezoid"
	methodLShape    = "LShape"
	methodStrip     = "Strip"
)

func physical(cfg builderConfig, ij []mesh.Logical) []r2.Point {
	xy := make([]r2.Point, len(ij))
	for k, l := range ij {
		xy[k] = cfg.at(l[0], l[1])
	}

	return xy
}

// Rectangle builds the ni×nj logical rectangle (0,0),(ni,0),(ni,nj),(0,nj).
// Requires ni, nj ≥ 1.
func Rectangle(ni, nj int) Constructor {
	return func(g *mesh.Grid, cfg builderConfig) error {
		if ni < 1 || nj < 1 {
			return fmt.Errorf("%s: %dx%d: %w", methodRectangle, ni, nj, ErrBadSize)
		}
		ij := []mesh.Logical{{0, 0}, {float64(ni), 0}, {float64(ni), float64(nj)}, {0, float64(nj)}}
		_, err := addRing(g, methodRectangle, ij, physical(cfg, ij))

		return err
	}
}

// Trapezoid builds the logical rectangle of Rectangle(ni, nj) with the top
// side shrunk physically by skew logical units at each end, so logical right
// angles sit at non-right physical corners. Requires 0 ≤ 2·skew < ni.
func Trapezoid(ni, nj int, skew float64) Constructor {
	return func(g *mesh.Grid, cfg builderConfig) error {
		if ni < 1 || nj < 1 || skew < 0 || 2*skew >= float64(ni) {
			return fmt.Errorf("%s: %dx%d skew %g: %w", methodTrapezoid, ni, nj, skew, ErrBadSize)
		}
		ij := []mesh.Logical{{0, 0}, {float64(ni), 0}, {float64(ni), float64(nj)}, {0, float64(nj)}}
		xy := []r2.Point{
			cfg.at(0, 0),
			cfg.at(float64(ni), 0),
			cfg.at(float64(ni)-skew, float64(nj)),
			cfg.at(skew, float64(nj)),
		}
		_, err := addRing(g, methodTrapezoid, ij, xy)

		return err
	}
}

// LShape builds the a×a square with its upper-right (a−b)×(a−b) block removed:
// (0,0),(a,0),(a,b),(b,b),(b,a),(0,a). The corner (b,b) is concave.
// Requires a > b ≥ 1.
func LShape(a, b int) Constructor {
	return func(g *mesh.Grid, cfg builderConfig) error {
		if b < 1 || a <= b {
			return fmt.Errorf("%s: a=%d b=%d: %w", methodLShape, a, b, ErrBadSize)
		}
		fa, fb := float64(a), float64(b)
		ij := []mesh.Logical{{0, 0}, {fa, 0}, {fa, fb}, {fb, fb}, {fb, fa}, {0, fa}}
		_, err := addRing(g, methodLShape, ij, physical(cfg, ij))

		return err
	}
}

// Strip builds `cells` ni×nj rectangles side by side along i, sharing their
// vertical sides, as one multi-cell generating grid. Requires cells, ni, nj ≥ 1.
func Strip(cells, ni, nj int) Constructor {
	return func(g *mesh.Grid, cfg builderConfig) error {
		if cells < 1 || ni < 1 || nj < 1 {
			return fmt.Errorf("%s: %d cells of %dx%d: %w", methodStrip, cells, ni, nj, ErrBadSize)
		}
		bottom := make([]int, cells+1)
		top := make([]int, cells+1)
		for k := 0; k <= cells; k++ {
			i := float64(k * ni)
			bottom[k] = g.AddFixedNode(cfg.at(i, 0), i, 0)
			top[k] = g.AddFixedNode(cfg.at(i, float64(nj)), i, float64(nj))
		}
		for k := 0; k < cells; k++ {
			if _, err := g.AddCell([]int{bottom[k], bottom[k+1], top[k+1], top[k]}); err != nil {
				return fmt.Errorf("%s: %w: %w", methodStrip, ErrConstructFailed, err)
			}
		}

		return nil
	}
}
