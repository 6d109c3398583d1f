// SPDX-License-Identifier: MIT

package quadgen

import (
	"context"
	"fmt"

	"github.com/katalvlaran/quadmesh/mesh"
)

// GenerateCells fills every cell of a multi-cell generating polygon
// independently and stitches the per-cell final grids.
//
// Logical coordinates are prepared once on the whole polygon so that shared
// sides agree; each cell then runs the single-cell pipeline on a private
// arena. The final grids are merged on node positions within the merge
// tolerance. Node.GenEdge of the per-cell and stitched grids refers to edge
// ids of Result.Gen.
//
// Errors: those of Generate, plus mesh.Merge errors (stitch stage).
func GenerateCells(ctx context.Context, pg mesh.PlanarGraph, opts ...Option) (*Result, error) {
	r := newRun(gatherOptions(opts...))
	gen, err := mesh.FromPlanarGraph(pg)
	if err != nil {
		return nil, stageErrorf(stagePrepare, err)
	}
	if err = r.timed(stagePrepare, func() error { return r.prepare(gen) }); err != nil {
		return nil, err
	}
	cells := gen.CellIDs()
	if len(cells) == 0 {
		return nil, stageErrorf(stagePrepare, mesh.ErrNoCycle)
	}

	out := &Result{RunID: r.id, Gen: gen, Final: mesh.NewGrid()}
	for _, c := range cells {
		sub, edgeMap, err := splitCell(gen, c)
		if err != nil {
			return nil, stageErrorf(stagePrepare, fmt.Errorf("cell %d: %w", c, err))
		}
		child := r.forCell(c)
		res, err := child.generate(ctx, sub)
		r.warnings = append(r.warnings, child.warnings...)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", c, err)
		}
		res.Warnings = child.warnings
		for _, g := range []*mesh.Grid{res.Intermediate, res.Final} {
			for n := range g.Nodes {
				if ge := g.Nodes[n].GenEdge; ge != mesh.NoEdge {
					g.Nodes[n].GenEdge = edgeMap[ge]
				}
			}
		}
		out.Cells = append(out.Cells, res)

		if err = r.timed(stageStitch, func() error {
			_, err := out.Final.Merge(res.Final, r.opts.MergeTolerance)
			return err
		}); err != nil {
			return nil, err
		}
	}
	out.Warnings = r.warnings
	r.log.Info("stitched cells", "cells", len(cells), "nodes", out.Final.NumNodes())

	return out, nil
}

// splitCell copies cell c of gen, with its corner and edge records, into a
// fresh arena. edgeMap maps the new edge ids back to gen's.
func splitCell(gen *mesh.Grid, c int) (*mesh.Grid, []int, error) {
	sub := mesh.NewGrid()
	nodeMap := make(map[int]int)
	corners := gen.Cells[c].Nodes
	ring := make([]int, len(corners))
	for k, n := range corners {
		id := sub.AddNode(gen.Nodes[n].XY)
		sub.Nodes[id] = gen.Nodes[n]
		nodeMap[n] = id
		ring[k] = id
	}

	var edgeMap []int
	for _, e := range gen.Cells[c].Edges {
		ed := gen.Edges[e]
		id, err := sub.AddEdge(nodeMap[ed.Nodes[0]], nodeMap[ed.Nodes[1]])
		if err != nil {
			return nil, nil, err
		}
		sub.Edges[id].Delta = ed.Delta
		sub.Edges[id].DIJ = ed.DIJ
		sub.Edges[id].NomDIJ = ed.NomDIJ
		edgeMap = append(edgeMap, e)
	}
	if _, err := sub.AddCell(ring); err != nil {
		return nil, nil, err
	}

	return sub, edgeMap, nil
}
