package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golang/geo/r2"

	"github.com/katalvlaran/quadmesh/mesh"
	"github.com/katalvlaran/quadmesh/quadgen"
)

// ErrBadPolygon indicates a polygon file that does not describe a valid
// generating polygon.
var ErrBadPolygon = errors.New("cli: invalid polygon file")

// polygonFile is the TOML layout of a generating polygon:
//
//	[[node]]
//	x = 0.0
//	y = 0.0
//	i = 0.0   # optional fixed logical coordinates
//	j = 0.0
//
//	[[cell]]
//	nodes = [0, 1, 2, 3]   # counter-clockwise
//
//	[[edge]]               # optional exact-scale delta overrides
//	nodes = [0, 1]
//	di = 4.0
type polygonFile struct {
	Nodes []polygonNode `toml:"node"`
	Cells []polygonCell `toml:"cell"`
	Edges []polygonEdge `toml:"edge,omitempty"`
}

type polygonNode struct {
	X float64  `toml:"x"`
	Y float64  `toml:"y"`
	I *float64 `toml:"i,omitempty"`
	J *float64 `toml:"j,omitempty"`
}

type polygonCell struct {
	Nodes []int `toml:"nodes"`
}

type polygonEdge struct {
	Nodes [2]int   `toml:"nodes"`
	DI    *float64 `toml:"di,omitempty"`
	DJ    *float64 `toml:"dj,omitempty"`
}

// resultFile is the TOML layout of a generated grid.
type resultFile struct {
	RunID    string        `toml:"run_id"`
	Warnings []string      `toml:"warnings,omitempty"`
	Nodes    []resultNode  `toml:"node"`
	Cells    []polygonCell `toml:"cell"`
}

type resultNode struct {
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	I        float64 `toml:"i"`
	J        float64 `toml:"j"`
	Boundary bool    `toml:"boundary"`
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ReadPolygon decodes a TOML polygon document into a grid.
func ReadPolygon(r io.Reader) (*mesh.Grid, error) {
	var pf polygonFile
	md, err := toml.NewDecoder(r).Decode(&pf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPolygon, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrBadPolygon, strings.Join(keys, ", "))
	}

	g := mesh.NewGrid()
	for _, n := range pf.Nodes {
		g.AddFixedNode(r2.Point{X: n.X, Y: n.Y}, orNaN(n.I), orNaN(n.J))
	}
	for k, c := range pf.Cells {
		for _, n := range c.Nodes {
			if n < 0 || n >= len(pf.Nodes) {
				return nil, fmt.Errorf("%w: cell %d references node %d", ErrBadPolygon, k, n)
			}
		}
		if _, err = g.AddCell(c.Nodes); err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", ErrBadPolygon, k, err)
		}
	}
	for k, e := range pf.Edges {
		id, ok := g.EdgeBetween(e.Nodes[0], e.Nodes[1])
		if !ok {
			return nil, fmt.Errorf("%w: edge %d %v is not a cell side", ErrBadPolygon, k, e.Nodes)
		}
		d := mesh.Logical{orNaN(e.DI), orNaN(e.DJ)}
		if g.Edges[id].Nodes[0] != e.Nodes[0] {
			d = d.Neg()
		}
		g.Edges[id].Delta = d
	}

	return g, nil
}

// ReadPolygonFile reads a TOML polygon file.
func ReadPolygonFile(path string) (*mesh.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadPolygon(f)
}

// WritePolygon encodes the nodes, cells and delta overrides of g.
func WritePolygon(w io.Writer, g *mesh.Grid) error {
	var pf polygonFile
	index := make(map[int]int)
	for _, n := range g.NodeIDs() {
		nd := g.Nodes[n]
		index[n] = len(pf.Nodes)
		pf.Nodes = append(pf.Nodes, polygonNode{
			X: nd.XY.X, Y: nd.XY.Y,
			I: finiteOrNil(nd.Fixed[0]), J: finiteOrNil(nd.Fixed[1]),
		})
	}
	for _, c := range g.CellIDs() {
		pf.Cells = append(pf.Cells, polygonCell{Nodes: remapped(g.Cells[c].Nodes, index)})
	}
	for _, e := range g.EdgeIDs() {
		ed := g.Edges[e]
		if ed.Delta.Finite(0) || ed.Delta.Finite(1) {
			pf.Edges = append(pf.Edges, polygonEdge{
				Nodes: [2]int{index[ed.Nodes[0]], index[ed.Nodes[1]]},
				DI:    finiteOrNil(ed.Delta[0]),
				DJ:    finiteOrNil(ed.Delta[1]),
			})
		}
	}

	return toml.NewEncoder(w).Encode(pf)
}

// WriteResult encodes the final grid of res with its warnings.
func WriteResult(w io.Writer, res *quadgen.Result) error {
	rf := resultFile{RunID: res.RunID}
	for _, wn := range res.Warnings {
		rf.Warnings = append(rf.Warnings, wn.String())
	}
	g := res.Final
	index := make(map[int]int)
	for _, n := range g.NodeIDs() {
		nd := g.Nodes[n]
		index[n] = len(rf.Nodes)
		rf.Nodes = append(rf.Nodes, resultNode{
			X: nd.XY.X, Y: nd.XY.Y,
			I: nd.IJ[0], J: nd.IJ[1],
			Boundary: g.IsBoundaryNode(n),
		})
	}
	for _, c := range g.CellIDs() {
		rf.Cells = append(rf.Cells, polygonCell{Nodes: remapped(g.Cells[c].Nodes, index)})
	}

	return toml.NewEncoder(w).Encode(rf)
}

// writeFile creates path and runs write on it.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func remapped(nodes []int, index map[int]int) []int {
	out := make([]int, len(nodes))
	for k, n := range nodes {
		out[k] = index[n]
	}
	return out
}
