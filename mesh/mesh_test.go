// Package mesh_test verifies arena construction, topology queries and merging.

package mesh_test

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/mesh"
)

// unitSquare adds a counter-clockwise unit square at (x0, y0) and returns its cell id.
func unitSquare(t *testing.T, g *mesh.Grid, x0, y0 float64) int {
	t.Helper()
	a := g.AddNode(r2.Point{X: x0, Y: y0})
	b := g.AddNode(r2.Point{X: x0 + 1, Y: y0})
	c := g.AddNode(r2.Point{X: x0 + 1, Y: y0 + 1})
	d := g.AddNode(r2.Point{X: x0, Y: y0 + 1})
	cell, err := g.AddCell([]int{a, b, c, d})
	require.NoError(t, err)

	return cell
}

func TestAddEdge_Errors(t *testing.T) {
	g := mesh.NewGrid()
	a := g.AddNode(r2.Point{})
	b := g.AddNode(r2.Point{X: 1})

	_, err := g.AddEdge(a, a)
	require.ErrorIs(t, err, mesh.ErrLoopNotAllowed)
	_, err = g.AddEdge(a, 7)
	require.ErrorIs(t, err, mesh.ErrNodeNotFound)

	e, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, a)
	require.ErrorIs(t, err, mesh.ErrDuplicateEdge)

	got, ok := g.EdgeBetween(b, a)
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.InDelta(t, 1.0, g.EdgeLength(e), 1e-15)
}

func TestAddCell_OrientationAndSides(t *testing.T) {
	g := mesh.NewGrid()
	a := g.AddNode(r2.Point{X: 0, Y: 0})
	b := g.AddNode(r2.Point{X: 1, Y: 0})
	c := g.AddNode(r2.Point{X: 1, Y: 1})
	d := g.AddNode(r2.Point{X: 0, Y: 1})

	// clockwise input is reversed
	cell, err := g.AddCell([]int{a, d, c, b})
	require.NoError(t, err)
	assert.Greater(t, g.CellArea(cell), 0.0)
	assert.InDelta(t, 0.5, g.CellCentroid(cell).X, 1e-15)
	assert.InDelta(t, 0.5, g.CellCentroid(cell).Y, 1e-15)

	edges, flip := g.CellEdges(cell)
	require.Len(t, edges, 4)
	for k, e := range edges {
		side := 0
		if flip[k] {
			side = 1
		}
		assert.Equal(t, cell, g.Edges[e].Cells[side])
		assert.True(t, g.IsBoundaryEdge(e))
	}

	_, err = g.AddCell([]int{a, b, c, d})
	require.ErrorIs(t, err, mesh.ErrEdgeOccupied)

	_, err = g.AddCell([]int{a, b})
	require.ErrorIs(t, err, mesh.ErrBadCell)
	e := g.AddNode(r2.Point{X: 2, Y: 0})
	_, err = g.AddCell([]int{a, b, e})
	require.ErrorIs(t, err, mesh.ErrBadCell, "collinear corners have zero area")
}

func TestAddRectilinear(t *testing.T) {
	g := mesh.NewGrid()
	_, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 1, Y: 1}, 1, 3)
	require.ErrorIs(t, err, mesh.ErrBadPatch)

	p, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 1}, 3, 2)
	require.NoError(t, err)
	require.Len(t, p.Nodes, 3)
	require.Len(t, p.Cells, 2)
	assert.Equal(t, r2.Point{X: 2, Y: 1}, g.Nodes[p.Nodes[2][1]].XY)
	assert.Len(t, g.CellIDs(), 2)
	assert.Len(t, g.EdgeIDs(), 7)

	// interior edge carries a cell on both sides
	e, ok := g.EdgeBetween(p.Nodes[1][0], p.Nodes[1][1])
	require.True(t, ok)
	assert.False(t, g.IsBoundaryEdge(e))
}

func TestBoundaryCycle_CounterClockwise(t *testing.T) {
	g := mesh.NewGrid()
	_, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 1}, 3, 2)
	require.NoError(t, err)

	cycle, err := g.BoundaryCycle()
	require.NoError(t, err)
	require.Len(t, cycle, 6)

	pts := make([]r2.Point, len(cycle))
	for k, n := range cycle {
		pts[k] = g.Nodes[n].XY
	}
	assert.InDelta(t, 2.0, mesh.SignedArea(pts), 1e-12)

	edges, err := g.CycleEdges(cycle)
	require.NoError(t, err)
	assert.Len(t, edges, 6)
}

func TestBoundaryCycle_Errors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := mesh.NewGrid().BoundaryCycle()
		require.ErrorIs(t, err, mesh.ErrNoCycle)
	})
	t.Run("Disjoint", func(t *testing.T) {
		g := mesh.NewGrid()
		unitSquare(t, g, 0, 0)
		unitSquare(t, g, 5, 0)
		_, err := g.BoundaryCycle()
		require.ErrorIs(t, err, mesh.ErrMultipleCycles)
	})
	t.Run("Pinched", func(t *testing.T) {
		g := mesh.NewGrid()
		a := g.AddNode(r2.Point{X: 0, Y: 0})
		b := g.AddNode(r2.Point{X: 1, Y: 0})
		c := g.AddNode(r2.Point{X: 1, Y: 1})
		d := g.AddNode(r2.Point{X: 0, Y: 1})
		e := g.AddNode(r2.Point{X: 2, Y: 1})
		f := g.AddNode(r2.Point{X: 2, Y: 2})
		h := g.AddNode(r2.Point{X: 1, Y: 2})
		_, err := g.AddCell([]int{a, b, c, d})
		require.NoError(t, err)
		_, err = g.AddCell([]int{c, e, f, h})
		require.NoError(t, err)
		_, err = g.BoundaryCycle()
		require.ErrorIs(t, err, mesh.ErrPinchedBoundary)
	})
}

func TestExtractLinearStrings(t *testing.T) {
	g := mesh.NewGrid()
	unitSquare(t, g, 0, 0)
	strs := g.ExtractLinearStrings()
	require.Len(t, strs, 1)
	s := strs[0]
	require.Len(t, s, 5)
	assert.Equal(t, s[0], s[4], "closed loop repeats its first node")

	g2 := mesh.NewGrid()
	_, err := g2.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 1}, 3, 2)
	require.NoError(t, err)
	strs = g2.ExtractLinearStrings()
	require.Len(t, strs, 3)
	total := 0
	for _, s := range strs {
		total += len(s) - 1
	}
	assert.Equal(t, 7, total, "every edge appears in exactly one string")
}

func TestAngleSortedNeighbors(t *testing.T) {
	g := mesh.NewGrid()
	p, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 2}, 3, 3)
	require.NoError(t, err)

	center := p.Nodes[1][1]
	got := g.AngleSortedNeighbors(center)
	want := []int{p.Nodes[1][0], p.Nodes[2][1], p.Nodes[1][2], p.Nodes[0][1]}
	assert.Equal(t, want, got)
	assert.False(t, g.IsBoundaryNode(center))
	assert.True(t, g.IsBoundaryNode(p.Nodes[0][0]))
}

func TestDeleteAndRenumber(t *testing.T) {
	g := mesh.NewGrid()
	p, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 1}, 3, 2)
	require.NoError(t, err)

	require.NoError(t, g.DeleteCell(p.Cells[1][0]))
	require.ErrorIs(t, g.DeleteCell(p.Cells[1][0]), mesh.ErrCellNotFound)
	assert.Equal(t, 3, g.DeleteOrphanEdges())
	assert.Equal(t, 2, g.DeleteOrphanNodes())

	r := g.Renumber()
	assert.Equal(t, -1, r.Nodes[p.Nodes[2][0]])
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 4)
	assert.Len(t, g.Cells, 1)

	cycle, err := g.BoundaryCycle()
	require.NoError(t, err)
	assert.Len(t, cycle, 4)
	for _, n := range g.NodeIDs() {
		assert.Len(t, g.NodeEdges(n), 2)
	}
}

func TestCopy_Independent(t *testing.T) {
	g := mesh.NewGrid()
	unitSquare(t, g, 0, 0)
	cp := g.Copy()
	cp.Nodes[0].XY = r2.Point{X: 9, Y: 9}
	require.NoError(t, cp.DeleteCell(0))

	assert.Equal(t, r2.Point{}, g.Nodes[0].XY)
	assert.True(t, g.CellValid(0))
	assert.False(t, cp.CellValid(0))
}

func TestMerge_SharedSide(t *testing.T) {
	g := mesh.NewGrid()
	unitSquare(t, g, 0, 0)
	other := mesh.NewGrid()
	unitSquare(t, other, 1, 0)

	r, err := g.Merge(other, 1e-9)
	require.NoError(t, err)
	assert.Len(t, g.NodeIDs(), 6)
	assert.Len(t, g.EdgeIDs(), 7)
	assert.Len(t, g.CellIDs(), 2)
	assert.Equal(t, 1, r.Nodes[0], "(1,0) unifies with the first square's corner")

	cycle, err := g.BoundaryCycle()
	require.NoError(t, err)
	assert.Len(t, cycle, 6)

	_, err = g.Merge(other, 1e-9)
	require.ErrorIs(t, err, mesh.ErrEdgeOccupied)
}

func TestNodeIndex(t *testing.T) {
	g := mesh.NewGrid()
	_, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 3, Y: 3}, 4, 4)
	require.NoError(t, err)

	ix := mesh.NewNodeIndex(g)
	require.Equal(t, 16, ix.Len())
	for _, q := range []r2.Point{{X: 0.1, Y: 0.2}, {X: 2.6, Y: 1.4}, {X: -5, Y: 7}} {
		got, ok := ix.Nearest(q)
		require.True(t, ok)
		want, _ := g.SelectNearest(q)
		assert.Equal(t, want, got)
	}
	assert.Len(t, ix.Within(r2.Point{X: 1, Y: 1}, 1.0), 5)

	_, ok := mesh.NewNodeIndex(mesh.NewGrid()).Nearest(r2.Point{})
	assert.False(t, ok)
}

func TestFromPlanarGraph_Copies(t *testing.T) {
	g := mesh.NewGrid()
	a := g.AddFixedNode(r2.Point{}, 0, 0)
	unitSquare(t, g, 3, 3)

	cp, err := mesh.FromPlanarGraph(g)
	require.NoError(t, err)
	cp.Nodes[a].Fixed[0] = 5
	assert.Equal(t, 0.0, g.Nodes[a].Fixed[0])
	assert.Equal(t, g.NumCells(), cp.NumCells())
}

func TestPointInPolygon(t *testing.T) {
	sq := []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	assert.True(t, mesh.PointInPolygon(r2.Point{X: 1, Y: 1}, sq))
	assert.False(t, mesh.PointInPolygon(r2.Point{X: 3, Y: 1}, sq))
	assert.False(t, mesh.PointInPolygon(r2.Point{X: 2, Y: 1}, sq), "boundary is outside")
}
