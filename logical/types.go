package logical

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/quadmesh/mesh"
)

var (
	// ErrNoFixedLogical indicates a cycle or string without any fixed value on an axis.
	ErrNoFixedLogical = errors.New("logical: no fixed logical coordinate")

	// ErrNonClosingCycle indicates logical deltas that do not sum to zero around a cycle.
	ErrNonClosingCycle = errors.New("logical: deltas do not close around cycle")
)

// Scale selects which logical field an operation reads and writes.
type Scale int

const (
	// Exact is the caller's logical scale (Node.IJ, Edge.DIJ).
	Exact Scale = iota
	// Nominal is the uniform-resolution integer scale (Node.NomIJ, Edge.NomDIJ).
	Nominal
)

// String returns the scale name.
func (s Scale) String() string {
	switch s {
	case Exact:
		return "ij"
	case Nominal:
		return "IJ"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// NodeIJ returns a pointer to the logical field of node n at scale s.
func NodeIJ(g *mesh.Grid, s Scale, n int) *mesh.Logical {
	if s == Nominal {
		return &g.Nodes[n].NomIJ
	}
	return &g.Nodes[n].IJ
}

// NodeIJFixed returns a pointer to the fixed-axis flags of node n at scale s.
func NodeIJFixed(g *mesh.Grid, s Scale, n int) *[2]bool {
	if s == Nominal {
		return &g.Nodes[n].NomIJFixed
	}
	return &g.Nodes[n].IJFixed
}

// EdgeDIJ returns a pointer to the logical delta of edge e at scale s.
func EdgeDIJ(g *mesh.Grid, s Scale, e int) *mesh.Logical {
	if s == Nominal {
		return &g.Edges[e].NomDIJ
	}
	return &g.Edges[e].DIJ
}
