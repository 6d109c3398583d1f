package bezier_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/bezier"
	"github.com/katalvlaran/quadmesh/builder"
	"github.com/katalvlaran/quadmesh/logical"
	"github.com/katalvlaran/quadmesh/mesh"
)

func assertPoint(t *testing.T, want, got r2.Point, tol float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
}

// prepared builds a polygon and assigns exact-scale logical deltas.
func prepared(t *testing.T, cons builder.Constructor) *mesh.Grid {
	t.Helper()
	g, err := builder.BuildPolygon(nil, cons)
	require.NoError(t, err)
	logical.Coalesce(g)
	require.NoError(t, logical.FillInterp(g, logical.Exact))
	logical.EdgeDeltas(g, logical.Exact)
	return g
}

func TestCubic(t *testing.T) {
	c := bezier.Cubic{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 0}}
	assertPoint(t, c[0], c.At(0), 0)
	assertPoint(t, c[3], c.At(1), 0)
	assertPoint(t, r2.Point{X: 2, Y: 1.5}, c.At(0.5), 1e-12)
	for _, s := range []float64{0.1, 0.4, 0.75} {
		assertPoint(t, c.At(s), c.Reverse().At(1-s), 1e-12)
	}

	line := bezier.Line(r2.Point{X: 0, Y: 0}, r2.Point{X: 3, Y: 0})
	pts := line.Sample(3)
	require.Len(t, pts, 4)
	for k, p := range pts {
		assertPoint(t, r2.Point{X: float64(k), Y: 0}, p, 1e-12)
	}
}

func TestFit_RectangleStaysStraight(t *testing.T) {
	g := prepared(t, builder.Rectangle(4, 2))
	require.NoError(t, bezier.Fit(g))

	for _, e := range g.EdgeIDs() {
		ed := g.Edges[e]
		want := bezier.Line(g.Nodes[ed.Nodes[0]].XY, g.Nodes[ed.Nodes[1]].XY)
		for k := range want {
			assertPoint(t, want[k], ed.Bezier[k], 1e-12, "edge %d control %d", e, k)
		}
	}
}

func TestFit_TrapezoidCornersBecomeRight(t *testing.T) {
	g := prepared(t, builder.Trapezoid(4, 2, 1))
	require.NoError(t, bezier.Fit(g))

	for _, n := range g.NodeIDs() {
		p := g.Nodes[n].XY
		var tangents []r2.Point
		for _, e := range g.NodeEdges(n) {
			ed := g.Edges[e]
			cp := ed.Bezier[2]
			if ed.Nodes[0] == n {
				cp = ed.Bezier[1]
			}
			tangents = append(tangents, cp.Sub(p))
		}
		require.Len(t, tangents, 2)
		cos := tangents[0].Dot(tangents[1]) / (tangents[0].Norm() * tangents[1].Norm())
		assert.InDelta(t, 0, cos, 1e-12, "node %d", n)
	}

	// endpoints never move
	for _, e := range g.EdgeIDs() {
		ed := g.Edges[e]
		assert.Equal(t, g.Nodes[ed.Nodes[0]].XY, ed.Bezier[0])
		assert.Equal(t, g.Nodes[ed.Nodes[1]].XY, ed.Bezier[3])
	}
}

func TestNewCurve_RectangleProjection(t *testing.T) {
	g := prepared(t, builder.Rectangle(4, 2))
	require.NoError(t, bezier.Fit(g))
	c, err := bezier.NewCurve(g, 10)
	require.NoError(t, err)

	assert.Len(t, c.Points(), 40)
	assert.InDelta(t, 12.0, c.Length(), 1e-9)

	cases := []struct{ in, want r2.Point }{
		{r2.Point{X: 2, Y: -1}, r2.Point{X: 2, Y: 0}},
		{r2.Point{X: 5, Y: 1}, r2.Point{X: 4, Y: 1}},
		{r2.Point{X: 1, Y: 1.9}, r2.Point{X: 1, Y: 2}},
		{r2.Point{X: -3, Y: -3}, r2.Point{X: 0, Y: 0}},
	}
	for _, tc := range cases {
		got, f := c.Closest(tc.in)
		assertPoint(t, tc.want, got, 1e-9, "closest to %v", tc.in)
		assertPoint(t, got, c.At(f), 1e-9, "parameter of %v", tc.in)
	}
}

func TestCurve_AtWraps(t *testing.T) {
	c := bezier.FromPoints([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	assert.InDelta(t, 4.0, c.Length(), 1e-12)
	assertPoint(t, r2.Point{X: 1, Y: 0.5}, c.At(1.5), 1e-12)
	assertPoint(t, r2.Point{X: 1, Y: 0.5}, c.At(5.5), 1e-12)
	assertPoint(t, r2.Point{X: 0, Y: 0.5}, c.At(-0.5), 1e-12)
	assert.False(t, math.IsNaN(c.At(0).X))
}

func TestNewCurve_Errors(t *testing.T) {
	g := prepared(t, builder.Rectangle(1, 1))
	_, err := bezier.NewCurve(g, 0)
	assert.ErrorIs(t, err, bezier.ErrBadSamples)

	_, err = bezier.NewCurve(mesh.NewGrid(), 4)
	assert.ErrorIs(t, err, mesh.ErrNoCycle)

	assert.ErrorIs(t, bezier.Fit(mesh.NewGrid()), mesh.ErrNoCycle)
}
