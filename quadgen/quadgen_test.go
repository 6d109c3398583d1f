package quadgen_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/builder"
	"github.com/katalvlaran/quadmesh/logical"
	"github.com/katalvlaran/quadmesh/mesh"
	"github.com/katalvlaran/quadmesh/quadgen"
)

func polygon(t *testing.T, cons builder.Constructor) *mesh.Grid {
	t.Helper()
	g, err := builder.BuildPolygon(nil, cons)
	require.NoError(t, err)
	return g
}

// assertUnitLattice checks that every node sits at its logical coordinate
// and every edge has unit length.
func assertUnitLattice(t *testing.T, g *mesh.Grid) {
	t.Helper()
	for _, n := range g.NodeIDs() {
		nd := g.Nodes[n]
		assert.InDelta(t, nd.IJ[0], nd.XY.X, 1e-6, "node %d x", n)
		assert.InDelta(t, nd.IJ[1], nd.XY.Y, 1e-6, "node %d y", n)
	}
	for _, e := range g.EdgeIDs() {
		assert.InDelta(t, 1.0, g.EdgeLength(e), 1e-6, "edge %d", e)
	}
}

func TestGenerate_RectangleExactGrid(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Rectangle(4, 2)),
		quadgen.WithNominalResolution(1))
	require.NoError(t, err)

	require.Equal(t, 15, res.Final.NumNodes())
	require.Len(t, res.Final.CellIDs(), 8)
	assertUnitLattice(t, res.Final)
	require.NoError(t, res.Validate())
	assert.Empty(t, res.Warnings)
	assert.NotEmpty(t, res.RunID)

	// every cell corner is a right angle
	for _, c := range res.Final.CellIDs() {
		pts := res.Final.CellPoints(c)
		for k := range pts {
			a := pts[(k+len(pts)-1)%len(pts)].Sub(pts[k])
			b := pts[(k+1)%len(pts)].Sub(pts[k])
			assert.InDelta(t, 0, a.Dot(b), 1e-6, "cell %d corner %d", c, k)
		}
	}
}

func TestGenerate_PsiMonotone(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Rectangle(4, 2)),
		quadgen.WithNominalResolution(1))
	require.NoError(t, err)
	require.NoError(t, res.CheckFields())

	g := res.Intermediate
	for _, n := range g.NodeIDs() {
		switch g.Nodes[n].IJ[0] {
		case 0:
			assert.InDelta(t, -1, res.Field.Psi[n], 1e-9, "node %d", n)
		case 4:
			assert.InDelta(t, 1, res.Field.Psi[n], 1e-9, "node %d", n)
		}
	}
}

func TestGenerate_NonAnisotropicRemapsIJ(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Rectangle(4, 2)),
		quadgen.WithNominalResolution(0.5), quadgen.WithAnisotropic(false))
	require.NoError(t, err)

	require.Equal(t, 45, res.Final.NumNodes())
	for _, n := range res.Final.NodeIDs() {
		nd := res.Final.Nodes[n]
		assert.InDelta(t, nd.IJ[0], nd.XY.X, 1e-6, "node %d", n)
		assert.InDelta(t, nd.IJ[1], nd.XY.Y, 1e-6, "node %d", n)
	}
	for _, e := range res.Final.EdgeIDs() {
		assert.InDelta(t, 0.5, res.Final.EdgeLength(e), 1e-6)
	}
}

func TestGenerate_NonClosingDeltas(t *testing.T) {
	g := polygon(t, builder.Rectangle(4, 2))
	// bottom edge claims 5 steps in i while the corners say 4
	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	g.Edges[e].Delta = mesh.Logical{5, math.NaN()}

	_, err := quadgen.Generate(context.Background(), g, quadgen.WithNominalResolution(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, logical.ErrNonClosingCycle)
}

// nodeAt returns the live node of g at logical (i, j).
func nodeAt(t *testing.T, g *mesh.Grid, i, j float64) int {
	t.Helper()
	for _, n := range g.NodeIDs() {
		if g.Nodes[n].IJ == (mesh.Logical{i, j}) {
			return n
		}
	}
	require.Failf(t, "missing node", "no node at (%g, %g)", i, j)
	return -1
}

// assertCells checks that no cell is folded and returns the largest
// deviation of a cell corner from a right angle, in degrees.
func assertCells(t *testing.T, g *mesh.Grid) float64 {
	t.Helper()
	worst := 0.0
	for _, c := range g.CellIDs() {
		assert.Greater(t, g.CellArea(c), 0.0, "cell %d folded", c)
		pts := g.CellPoints(c)
		for k := range pts {
			u := pts[(k+len(pts)-1)%len(pts)].Sub(pts[k])
			v := pts[(k+1)%len(pts)].Sub(pts[k])
			deg := math.Atan2(v.Cross(u), u.Dot(v)) * 180 / math.Pi
			worst = math.Max(worst, math.Abs(deg-90))
		}
	}

	return worst
}

func TestGenerate_Trapezoid(t *testing.T) {
	corners := map[mesh.Logical]r2.Point{
		{0, 0}: {X: 0, Y: 0},
		{4, 0}: {X: 4, Y: 0},
		{4, 2}: {X: 3, Y: 2},
		{0, 2}: {X: 1, Y: 2},
	}
	for _, res := range []float64{1, 0.5} {
		out, err := quadgen.Generate(context.Background(), polygon(t, builder.Trapezoid(4, 2, 1)),
			quadgen.WithNominalResolution(res))
		require.NoError(t, err, "resolution %g", res)
		require.Equal(t, 15, out.Final.NumNodes())
		require.NoError(t, out.Validate())

		for ij, want := range corners {
			got := out.Final.Nodes[nodeAt(t, out.Final, ij[0], ij[1])].XY
			assert.InDelta(t, want.X, got.X, 1e-6, "resolution %g corner %v", res, ij)
			assert.InDelta(t, want.Y, got.Y, 1e-6, "resolution %g corner %v", res, ij)
		}
		// the slanted sides cost about 20 degrees at the worst corner
		assert.Less(t, assertCells(t, out.Final), 25.0, "resolution %g", res)
	}
}

func TestGenerate_TrapezoidBoundaryConditionsExact(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Trapezoid(4, 2, 1)),
		quadgen.WithNominalResolution(1))
	require.NoError(t, err)

	g := res.Intermediate
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, n := range g.NodeIDs() {
		lo = math.Min(lo, g.Nodes[n].IJ[0])
		hi = math.Max(hi, g.Nodes[n].IJ[0])
	}
	var bottom, top []float64
	for _, n := range g.NodeIDs() {
		switch ij := g.Nodes[n].IJ; {
		case ij[0] == lo:
			assert.Equal(t, -1.0, res.Field.Psi[n], "node %d", n)
		case ij[0] == hi:
			assert.Equal(t, 1.0, res.Field.Psi[n], "node %d", n)
		}
		switch ij := g.Nodes[n].IJ; ij[1] {
		case 0:
			bottom = append(bottom, res.Field.Phi[n])
		case 2:
			top = append(top, res.Field.Phi[n])
		}
	}
	require.NotEmpty(t, bottom)
	require.NotEmpty(t, top)
	for _, v := range bottom {
		assert.Equal(t, bottom[0], v)
	}
	for _, v := range top {
		assert.Equal(t, top[0], v)
	}
	assert.True(t, bottom[0] == 1 || top[0] == 1, "bottom %g top %g", bottom[0], top[0])
	assert.NotEqual(t, bottom[0], top[0])
}

func TestGenerate_SoftConstraintsRectangle(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Rectangle(4, 2)),
		quadgen.WithNominalResolution(1), quadgen.WithExactConstraints(false))
	require.NoError(t, err)
	assertUnitLattice(t, res.Final)
}

func TestGenerate_LShape(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.LShape(4, 2)),
		quadgen.WithNominalResolution(1))
	require.NoError(t, err)
	assert.Equal(t, 21, res.Intermediate.NumNodes())
	assert.Equal(t, 21, res.Final.NumNodes())
	assert.Len(t, res.Final.CellIDs(), 12)
	require.NoError(t, res.Validate())

	// an L of unit squares is already orthogonal: the grid is the lattice
	assertUnitLattice(t, res.Final)
	assert.Less(t, assertCells(t, res.Final), 1e-4)

	rigid := 0
	for _, n := range res.Intermediate.NodeIDs() {
		if res.Intermediate.Nodes[n].Rigid {
			rigid++
		}
	}
	assert.Equal(t, 6, rigid)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := quadgen.Generate(context.Background(), polygon(t, builder.Strip(2, 4, 2)))
	assert.ErrorIs(t, err, quadgen.ErrMultipleCells)

	_, err = quadgen.Generate(context.Background(), mesh.NewGrid())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = quadgen.Generate(ctx, polygon(t, builder.Rectangle(4, 2)), quadgen.WithNominalResolution(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateCells_Strip(t *testing.T) {
	res, err := quadgen.GenerateCells(context.Background(), polygon(t, builder.Strip(2, 4, 2)),
		quadgen.WithNominalResolution(1))
	require.NoError(t, err)
	require.Len(t, res.Cells, 2)

	assert.Equal(t, 27, res.Final.NumNodes())
	assert.Len(t, res.Final.CellIDs(), 16)
	assertUnitLattice(t, res.Final)
	require.NoError(t, res.Validate())

	cycle, err := res.Final.BoundaryCycle()
	require.NoError(t, err)
	assert.Len(t, cycle, 20)
	for _, n := range res.Final.NodeIDs() {
		if ge := res.Final.Nodes[n].GenEdge; ge != mesh.NoEdge {
			assert.True(t, res.Gen.EdgeValid(ge), "node %d gen edge %d", n, ge)
		}
	}
}

func TestRemap_Idempotent(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Trapezoid(4, 2, 1)),
		quadgen.WithNominalResolution(1))
	require.NoError(t, err)

	t1, t2 := res.Final.Copy(), res.Final.Copy()
	require.NoError(t, quadgen.Remap(res.Gen, res.Intermediate, res.Field, t1, logical.Exact))
	require.NoError(t, quadgen.Remap(res.Gen, res.Intermediate, res.Field, t2, logical.Exact))
	for _, n := range t1.NodeIDs() {
		assert.Equal(t, t1.Nodes[n].XY, t2.Nodes[n].XY)
		assert.Equal(t, res.Final.Nodes[n].XY, t1.Nodes[n].XY)
	}
}

func TestRemap_ScaleMismatch(t *testing.T) {
	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Rectangle(4, 2)),
		quadgen.WithNominalResolution(0.5))
	require.NoError(t, err)

	// the exact-scale final grid does not span the nominal range [0, 8]
	err = quadgen.Remap(res.Gen, res.Intermediate, res.Field, res.Final.Copy(), logical.Nominal)
	assert.ErrorIs(t, err, quadgen.ErrScaleMismatch)
}

func TestIntermediateGrid_UnmatchedBoundaryNode(t *testing.T) {
	g := mesh.NewGrid()
	ij := [][2]float64{{0, 0}, {4, 0}, {4, 2}, {2, 4}, {0, 4}}
	ring := make([]int, len(ij))
	for k, l := range ij {
		ring[k] = g.AddFixedNode(r2.Point{X: l[0], Y: l[1]}, l[0], l[1])
	}
	_, err := g.AddCell(ring)
	require.NoError(t, err)

	gen, err := quadgen.Prepare(g, quadgen.WithNominalResolution(1))
	require.NoError(t, err)
	_, err = quadgen.IntermediateGrid(gen, logical.Nominal)
	assert.ErrorIs(t, err, quadgen.ErrUnmatchedBoundaryNode)
}

func TestIntermediateGrid_RigidAndGenEdges(t *testing.T) {
	gen, err := quadgen.Prepare(polygon(t, builder.Rectangle(4, 2)), quadgen.WithNominalResolution(1))
	require.NoError(t, err)
	g, err := quadgen.IntermediateGrid(gen, logical.Nominal)
	require.NoError(t, err)

	require.Equal(t, 15, g.NumNodes())
	for _, n := range g.NodeIDs() {
		nd := g.Nodes[n]
		corner := (nd.IJ[0] == 0 || nd.IJ[0] == 4) && (nd.IJ[1] == 0 || nd.IJ[1] == 2)
		assert.Equal(t, corner, nd.Rigid, "node %d", n)
		assert.Equal(t, g.IsBoundaryNode(n), nd.GenEdge != mesh.NoEdge, "node %d", n)
		assert.InDelta(t, nd.IJ[0], nd.XY.X, 1e-12)
		assert.InDelta(t, nd.IJ[1], nd.XY.Y, 1e-12)
	}
}

func TestRemapIJ_Rectangle(t *testing.T) {
	gen, err := quadgen.Prepare(polygon(t, builder.Rectangle(4, 2)), quadgen.WithNominalResolution(0.5))
	require.NoError(t, err)
	g, err := quadgen.IntermediateGrid(gen, logical.Nominal)
	require.NoError(t, err)

	ij, err := quadgen.RemapIJ(gen, g)
	require.NoError(t, err)
	for _, n := range g.NodeIDs() {
		assert.InDelta(t, g.Nodes[n].IJ[0]/2, ij[n][0], 1e-9)
		assert.InDelta(t, g.Nodes[n].IJ[1]/2, ij[n][1], 1e-9)
	}
}

func TestCheckMonotone(t *testing.T) {
	assert.NoError(t, quadgen.CheckMonotone([]float64{0, 0, 1, 2}, []float64{1, 3, 4, 5}))
	assert.NoError(t, quadgen.CheckMonotone([]float64{2, 1, 0}, []float64{-3, -2, -1}))
	assert.ErrorIs(t, quadgen.CheckMonotone([]float64{0, 1, 2}, []float64{1, 3, 2}), quadgen.ErrNotMonotone)
	assert.ErrorIs(t, quadgen.CheckMonotone([]float64{1, 1}, []float64{1, 3}), quadgen.ErrInsufficientGroups)
}

func TestGenerate_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	res, err := quadgen.Generate(context.Background(), polygon(t, builder.Rectangle(4, 2)),
		quadgen.WithNominalResolution(1), quadgen.WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "generated grid")
	assert.Contains(t, out, "stage done")
	assert.Contains(t, out, res.RunID)
}

func TestConfig(t *testing.T) {
	doc := []byte(`
anisotropic = false
nominal_resolution = 0.5
min_logical_steps = 3
smoothing_iterations = 1
strict_cartesian = true
exact_constraints = false

[solver]
dense_limit = 0
max_iter = 500
`)
	cfg, err := quadgen.ParseConfig(doc)
	require.NoError(t, err)

	o := quadgen.DefaultOptions()
	for _, set := range cfg.Options() {
		set(&o)
	}
	assert.False(t, o.Anisotropic)
	assert.Equal(t, 0.5, o.NominalResolution)
	assert.Equal(t, 3, o.MinLogicalSteps)
	assert.Equal(t, 1, o.SmoothingIterations)
	assert.True(t, o.StrictCartesian)
	assert.False(t, o.ExactConstraints)
	assert.Len(t, o.Solver, 2)
	assert.Equal(t, quadgen.DefaultBezierSamples, o.BezierSamples)

	path := filepath.Join(t.TempDir(), "quadgen.toml")
	require.NoError(t, os.WriteFile(path, doc, 0o600))
	loaded, err := quadgen.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	back := quadgen.ConfigOf(o)
	assert.Equal(t, 0.5, *back.NominalResolution)
	assert.False(t, *back.ExactConstraints)
}

func TestConfig_Errors(t *testing.T) {
	_, err := quadgen.ParseConfig([]byte("nominal_resolution = -1"))
	assert.ErrorIs(t, err, quadgen.ErrInvalidConfig)

	_, err = quadgen.ParseConfig([]byte("resolution = 1"))
	assert.ErrorIs(t, err, quadgen.ErrUnknownConfigKey)

	_, err = quadgen.ParseConfig([]byte("nominal_resolution = ="))
	assert.Error(t, err)

	_, err = quadgen.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { quadgen.WithNominalResolution(0) })
	assert.Panics(t, func() { quadgen.WithMinLogicalSteps(0) })
	assert.Panics(t, func() { quadgen.WithSmoothingIterations(-1) })
	assert.Panics(t, func() { quadgen.WithBezierSamples(0) })
	assert.Panics(t, func() { quadgen.WithGenEdgeTolerance(math.NaN()) })
	assert.Panics(t, func() { quadgen.WithLogger(nil) })
}
