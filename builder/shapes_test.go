package builder_test

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/builder"
	"github.com/katalvlaran/quadmesh/mesh"
)

func TestShapes(t *testing.T) {
	cases := []struct {
		name  string
		cons  builder.Constructor
		nodes int
		cells int
		area  float64
	}{
		{"rectangle", builder.Rectangle(4, 2), 4, 1, 8},
		{"trapezoid", builder.Trapezoid(4, 2, 1), 4, 1, 6},
		{"lshape", builder.LShape(4, 2), 6, 1, 12},
		{"strip", builder.Strip(3, 2, 1), 8, 3, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := builder.BuildPolygon(nil, tc.cons)
			require.NoError(t, err)
			assert.Equal(t, tc.nodes, g.NumNodes())
			assert.Len(t, g.CellIDs(), tc.cells)

			area := 0.0
			for _, c := range g.CellIDs() {
				a := g.CellArea(c)
				assert.Greater(t, a, 0.0, "cell %d clockwise", c)
				area += a
			}
			assert.InDelta(t, tc.area, area, 1e-12)

			for _, n := range g.NodeIDs() {
				f := g.Nodes[n].Fixed
				assert.True(t, f.Finite(0) && f.Finite(1), "node %d not fixed", n)
			}
		})
	}
}

func TestShapes_ScaleAndOrigin(t *testing.T) {
	g, err := builder.BuildPolygon(
		[]builder.BuilderOption{builder.WithScale(2), builder.WithOrigin(r2.Point{X: 1, Y: -1})},
		builder.Rectangle(3, 1))
	require.NoError(t, err)

	want := []r2.Point{{X: 1, Y: -1}, {X: 7, Y: -1}, {X: 7, Y: 1}, {X: 1, Y: 1}}
	for k, p := range want {
		assert.Equal(t, p, g.Nodes[k].XY)
	}
	assert.Equal(t, mesh.Logical{3, 1}, g.Nodes[2].Fixed)
}

func TestShapes_Errors(t *testing.T) {
	for name, cons := range map[string]builder.Constructor{
		"rectangle": builder.Rectangle(0, 2),
		"trapezoid": builder.Trapezoid(4, 2, 2),
		"lshape":    builder.LShape(2, 2),
		"strip":     builder.Strip(0, 1, 1),
		"star":      builder.RandomStar(2, 1, 2),
	} {
		_, err := builder.BuildPolygon([]builder.BuilderOption{builder.WithSeed(1)}, cons)
		assert.ErrorIs(t, err, builder.ErrBadSize, name)
	}

	_, err := builder.BuildPolygon(nil, nil)
	assert.ErrorIs(t, err, builder.ErrConstructFailed)

	_, err = builder.BuildPolygon(nil, builder.RandomStar(5, 1, 2))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)
}

func TestRandomStar_Deterministic(t *testing.T) {
	build := func(seed int64) *mesh.Grid {
		g, err := builder.BuildPolygon([]builder.BuilderOption{builder.WithSeed(seed)},
			builder.RandomStar(9, 1, 3))
		require.NoError(t, err)
		return g
	}
	a, b := build(7), build(7)
	require.Equal(t, 9, a.NumNodes())
	for _, n := range a.NodeIDs() {
		assert.Equal(t, a.Nodes[n].XY, b.Nodes[n].XY)
		assert.Equal(t, a.Nodes[n].Fixed.Finite(0), b.Nodes[n].Fixed.Finite(0))
		r := a.Nodes[n].XY.Norm()
		assert.True(t, r >= 1 && r <= 3, "node %d radius %g", n, r)
	}
	assert.Equal(t, mesh.Logical{0, 0}, a.Nodes[0].Fixed)
	assert.Greater(t, a.CellArea(a.CellIDs()[0]), 0.0)

	c := build(8)
	assert.NotEqual(t, a.Nodes[1].XY, c.Nodes[1].XY)
}

func TestRandomStar_FixedProbability(t *testing.T) {
	g, err := builder.BuildPolygon(
		[]builder.BuilderOption{builder.WithSeed(3), builder.WithFixedProbability(0)},
		builder.RandomStar(6, 1, 2))
	require.NoError(t, err)
	for _, n := range g.NodeIDs()[1:] {
		assert.False(t, g.Nodes[n].Fixed.Finite(0))
		assert.False(t, g.Nodes[n].Fixed.Finite(1))
	}
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithScale(0) })
	assert.Panics(t, func() { builder.WithFixedProbability(1.5) })
}
