// SPDX-License-Identifier: MIT
// Package: quadmesh/builder
//
// api.go: Constructor type and the BuildPolygon entry point.

package builder

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/mesh"
)

// Constructor adds nodes and cells to g according to cfg.
type Constructor func(g *mesh.Grid, cfg builderConfig) error

// BuildPolygon runs the constructors in order on a fresh grid.
//
// Errors:
//   - ErrConstructFailed for a nil constructor.
//   - any constructor error, wrapped with "BuildPolygon".
func BuildPolygon(bopts []BuilderOption, cons ...Constructor) (*mesh.Grid, error) {
	g := mesh.NewGrid()
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildPolygon: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return nil, fmt.Errorf("BuildPolygon: %w", err)
		}
	}

	return g, nil
}

// addRing adds nodes with fixed logical coordinates ij at physical positions
// xy, then one cell over them.
func addRing(g *mesh.Grid, method string, ij []mesh.Logical, xy []r2.Point) ([]int, error) {
	nodes := make([]int, len(ij))
	for k := range ij {
		nodes[k] = g.AddFixedNode(xy[k], ij[k][0], ij[k][1])
	}
	if _, err := g.AddCell(nodes); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", method, ErrConstructFailed, err)
	}

	return nodes, nil
}
