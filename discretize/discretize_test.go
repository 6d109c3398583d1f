package discretize_test

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/discretize"
	"github.com/katalvlaran/quadmesh/matrix"
	"github.com/katalvlaran/quadmesh/mesh"
)

// jitteredPatch returns an nx×ny lattice with interior nodes displaced by up
// to ±0.2 of the spacing.
func jitteredPatch(t *testing.T, seed int64, nx, ny int) (*mesh.Grid, mesh.Patch) {
	t.Helper()
	g := mesh.NewGrid()
	p, err := g.AddRectilinear(r2.Point{}, r2.Point{X: float64(nx - 1), Y: float64(ny - 1)}, nx, ny)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := 1; i < nx-1; i++ {
		for j := 1; j < ny-1; j++ {
			n := p.Nodes[i][j]
			g.Nodes[n].XY = g.Nodes[n].XY.Add(r2.Point{X: 0.4 * (rng.Float64() - 0.5), Y: 0.4 * (rng.Float64() - 0.5)})
		}
	}

	return g, p
}

func apply(t *testing.T, m *matrix.CSR, f func(r2.Point) float64, g *mesh.Grid) []float64 {
	t.Helper()
	v := make([]float64, g.NumNodes())
	for n := range v {
		v[n] = f(g.Nodes[n].XY)
	}
	out, err := m.MatVec(v)
	require.NoError(t, err)

	return out
}

func TestLaplacian_ConstantAndLinear(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g, _ := jitteredPatch(t, seed, 5, 4)
		m, rhs, err := discretize.New(g).ConstructMatrix(discretize.Laplacian, nil, nil)
		require.NoError(t, err)
		for _, r := range rhs {
			assert.Equal(t, 0.0, r)
		}

		ones := apply(t, m, func(r2.Point) float64 { return 1 }, g)
		for n, v := range ones {
			assert.InDelta(t, 0, v, 1e-12, "row sum at node %d", n)
		}

		lin := apply(t, m, func(p r2.Point) float64 { return 3*p.X - 2*p.Y + 1 }, g)
		for n, v := range lin {
			if !g.IsBoundaryNode(n) {
				assert.InDelta(t, 0, v, 1e-10, "laplacian of a linear field at node %d", n)
			}
		}
	}
}

func TestDerivatives_ExactOnLinear(t *testing.T) {
	g, _ := jitteredPatch(t, 42, 4, 4)
	d := discretize.New(g)

	dx, _, err := d.ConstructMatrix(discretize.Dx, nil, nil)
	require.NoError(t, err)
	dy, _, err := d.ConstructMatrix(discretize.Dy, nil, nil)
	require.NoError(t, err)

	fx := func(p r2.Point) float64 { return p.X }
	fy := func(p r2.Point) float64 { return p.Y }
	for n, v := range apply(t, dx, fx, g) {
		assert.InDelta(t, 1, v, 1e-12, "dx(x) at %d", n)
	}
	for n, v := range apply(t, dx, fy, g) {
		assert.InDelta(t, 0, v, 1e-12, "dx(y) at %d", n)
	}
	for n, v := range apply(t, dy, fy, g) {
		assert.InDelta(t, 1, v, 1e-12, "dy(y) at %d", n)
	}
	for n, v := range apply(t, dy, fx, g) {
		assert.InDelta(t, 0, v, 1e-12, "dy(x) at %d", n)
	}
}

func TestNodeRow_BoundaryRing(t *testing.T) {
	g := mesh.NewGrid()
	p, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 2}, 3, 3)
	require.NoError(t, err)
	d := discretize.New(g)

	// bottom middle node: neighbours left, up, right; fans on the upper side only
	row, err := d.NodeRow(p.Nodes[1][0], discretize.Laplacian)
	require.NoError(t, err)
	require.Len(t, row.Nodes, 4)
	assert.Equal(t, p.Nodes[1][0], row.Nodes[0])
	assert.Equal(t, []int{p.Nodes[2][0], p.Nodes[1][1], p.Nodes[0][0]}, row.Nodes[1:])
	assert.Equal(t, 0.0, row.RHS)

	// interior centre: standard 5-point stencil on the unit lattice
	row, err = d.NodeRow(p.Nodes[1][1], discretize.Laplacian)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, row.Coeffs[0], 1e-12)
	for _, c := range row.Coeffs[1:] {
		assert.InDelta(t, 1.0, c, 1e-12)
	}
}

func TestConstructMatrix_Constraints(t *testing.T) {
	g := mesh.NewGrid()
	p, err := g.AddRectilinear(r2.Point{}, r2.Point{X: 2, Y: 1}, 3, 2)
	require.NoError(t, err)
	a, b, c := p.Nodes[0][0], p.Nodes[1][0], p.Nodes[2][0]

	m, rhs, err := discretize.New(g).ConstructMatrix(discretize.Laplacian,
		map[int]float64{a: -1},
		[][]int{{b, c}})
	require.NoError(t, err)

	v, err := m.At(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, -1.0, rhs[a])

	var leaderRow int
	m.Row(b, func(int, float64) { leaderRow++ })
	assert.Zero(t, leaderRow, "group leader row is left empty")

	v, err = m.At(c, c)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = m.At(c, b)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
	assert.Equal(t, 0.0, rhs[c])
}

func TestNodeRow_Errors(t *testing.T) {
	g := mesh.NewGrid()
	a := g.AddNode(r2.Point{})
	bb := g.AddNode(r2.Point{X: 1})
	c := g.AddNode(r2.Point{X: 1})
	_, err := g.AddEdge(a, bb)
	require.NoError(t, err)
	_, err = g.AddEdge(bb, c)
	require.NoError(t, err)
	_, err = g.AddEdge(c, a)
	require.NoError(t, err)

	d := discretize.New(g)
	_, err = d.NodeRow(a, discretize.Laplacian)
	require.ErrorIs(t, err, discretize.ErrNonFinite, "coincident neighbours give a zero-area fan")

	_, err = d.NodeRow(99, discretize.Dx)
	require.ErrorIs(t, err, mesh.ErrNodeNotFound)
	_, err = d.NodeRow(a, discretize.Operator(9))
	require.ErrorIs(t, err, discretize.ErrUnknownOperator)
	assert.Equal(t, "dy", discretize.Dy.String())
}
