package cli

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/builder"
	"github.com/katalvlaran/quadmesh/mesh"
)

const rectangleDoc = `
[[node]]
x = 0.0
y = 0.0
i = 0.0
j = 0.0

[[node]]
x = 4.0
y = 0.0
i = 4.0
j = 0.0

[[node]]
x = 4.0
y = 2.0
i = 4.0
j = 2.0

[[node]]
x = 0.0
y = 2.0
i = 0.0
j = 2.0

[[cell]]
nodes = [0, 1, 2, 3]

[[edge]]
nodes = [1, 0]
di = -4.0
`

func TestReadPolygon(t *testing.T) {
	g, err := ReadPolygon(strings.NewReader(rectangleDoc))
	require.NoError(t, err)
	require.Equal(t, 4, g.NumNodes())
	require.Len(t, g.CellIDs(), 1)

	assert.Equal(t, mesh.Logical{4, 2}, g.Nodes[2].Fixed)
	assert.Equal(t, mesh.Logical{4, 0}, g.Nodes[1].Fixed)

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	d := g.Edges[e].Delta
	if g.Edges[e].Nodes[0] == 0 {
		assert.Equal(t, 4.0, d[0])
	} else {
		assert.Equal(t, -4.0, d[0])
	}
	assert.True(t, math.IsNaN(d[1]))

	free, err := ReadPolygon(strings.NewReader("[[node]]\nx = 1.0\ny = 2.0\ni = 3.0\n"))
	require.NoError(t, err)
	require.Equal(t, 1, free.NumNodes())
	assert.Equal(t, 3.0, free.Nodes[0].Fixed[0])
	assert.True(t, math.IsNaN(free.Nodes[0].Fixed[1]))
}

func TestReadPolygon_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed":   "[[node]\nx = 1",
		"unknown key": "[[node]]\nx = 0.0\ny = 0.0\nk = 1.0",
		"bad index": `
[[node]]
x = 0.0
y = 0.0
[[cell]]
nodes = [0, 1, 2]`,
		"not a side": rectangleDoc + `
[[edge]]
nodes = [0, 2]
di = 1.0`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPolygon(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrBadPolygon)
		})
	}
}

func TestWritePolygon_RoundTrip(t *testing.T) {
	g, err := builder.BuildPolygon(nil, builder.Strip(2, 3, 1))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePolygon(&buf, g))
	back, err := ReadPolygon(&buf)
	require.NoError(t, err)

	require.Equal(t, g.NumNodes(), back.NumNodes())
	require.Equal(t, len(g.CellIDs()), len(back.CellIDs()))
	for _, n := range g.NodeIDs() {
		assert.Equal(t, g.Nodes[n].XY, back.Nodes[n].XY)
		assert.Equal(t, g.Nodes[n].Fixed, back.Nodes[n].Fixed)
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func readResult(t *testing.T, path string) resultFile {
	t.Helper()
	var rf resultFile
	_, err := toml.DecodeFile(path, &rf)
	require.NoError(t, err)
	return rf
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rect.toml")
	require.NoError(t, os.WriteFile(input, []byte(rectangleDoc), 0o600))

	out, err := execute(t, "generate", input, "--resolution", "1", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Grid generated")
	assert.Contains(t, out, "nodes")

	rf := readResult(t, filepath.Join(dir, "rect.grid.toml"))
	assert.NotEmpty(t, rf.RunID)
	require.Len(t, rf.Nodes, 15)
	assert.Len(t, rf.Cells, 8)
	boundary := 0
	for _, n := range rf.Nodes {
		assert.InDelta(t, n.I, n.X, 1e-6)
		assert.InDelta(t, n.J, n.Y, 1e-6)
		if n.Boundary {
			boundary++
		}
	}
	assert.Equal(t, 12, boundary)
}

func TestGenerateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "generate", filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	input := filepath.Join(dir, "rect.toml")
	require.NoError(t, os.WriteFile(input, []byte(rectangleDoc), 0o600))
	_, err = execute(t, "generate", input, "--resolution", "-1")
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "strip.grid.toml")
	polygon := filepath.Join(dir, "strip.toml")

	out, err := execute(t, "demo", "strip", "--ni", "2", "--nj", "2", "--resolution", "1",
		"-o", output, "--save-polygon", polygon)
	require.NoError(t, err)
	assert.Contains(t, out, "Demo strip generated")
	assert.Contains(t, out, "polygon cells")

	rf := readResult(t, output)
	assert.Len(t, rf.Nodes, 15)
	assert.Len(t, rf.Cells, 8)

	g, err := ReadPolygonFile(polygon)
	require.NoError(t, err)
	assert.Len(t, g.CellIDs(), 2)

	_, err = execute(t, "demo", "hexagon")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--resolution", "2", "--isotropic")
	require.NoError(t, err)
	assert.Contains(t, out, "nominal_resolution = 2.0")
	assert.Contains(t, out, "anisotropic = false")

	path := filepath.Join(t.TempDir(), "quadgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	again, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
