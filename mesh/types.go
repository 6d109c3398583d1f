// File: types.go
// Role: record schema, sentinel errors and the Grid constructor.

package mesh

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
)

// Sentinel errors for mesh operations.
var (
	// ErrNodeNotFound indicates an operation referenced a missing or deleted node.
	ErrNodeNotFound = errors.New("mesh: node not found")

	// ErrEdgeNotFound indicates an operation referenced a missing or deleted edge.
	ErrEdgeNotFound = errors.New("mesh: edge not found")

	// ErrCellNotFound indicates an operation referenced a missing or deleted cell.
	ErrCellNotFound = errors.New("mesh: cell not found")

	// ErrLoopNotAllowed indicates an edge from a node to itself.
	ErrLoopNotAllowed = errors.New("mesh: self-loop not allowed")

	// ErrDuplicateEdge indicates an edge already joins the two nodes.
	ErrDuplicateEdge = errors.New("mesh: duplicate edge")

	// ErrEdgeOccupied indicates a cell was added on an edge side that already has a cell.
	ErrEdgeOccupied = errors.New("mesh: edge side already has a cell")

	// ErrBadCell indicates a cell with fewer than three distinct nodes or zero area.
	ErrBadCell = errors.New("mesh: invalid cell")

	// ErrNoCycle indicates the grid has no boundary cycle.
	ErrNoCycle = errors.New("mesh: no boundary cycle")

	// ErrMultipleCycles indicates more than one boundary cycle (holes or disjoint parts).
	ErrMultipleCycles = errors.New("mesh: multiple boundary cycles not supported")

	// ErrPinchedBoundary indicates a node with more than two boundary edges.
	ErrPinchedBoundary = errors.New("mesh: pinched boundary node")

	// ErrBadPatch indicates a rectilinear patch with fewer than two nodes along an axis.
	ErrBadPatch = errors.New("mesh: rectilinear patch needs at least 2x2 nodes")
)

// NoCell marks the absent side of a boundary edge, and NoEdge an interior
// node's generating-edge reference.
const (
	NoCell = -1
	NoEdge = -1
)

// Logical is a logical (i, j) coordinate pair. NaN marks a free axis.
type Logical [2]float64

// FreeLogical returns a Logical with both axes free.
func FreeLogical() Logical { return Logical{math.NaN(), math.NaN()} }

// Finite reports whether the given axis (0 = i, 1 = j) carries a value.
func (l Logical) Finite(axis int) bool {
	return !math.IsNaN(l[axis]) && !math.IsInf(l[axis], 0)
}

// Sub returns l − o component-wise.
func (l Logical) Sub(o Logical) Logical { return Logical{l[0] - o[0], l[1] - o[1]} }

// Add returns l + o component-wise.
func (l Logical) Add(o Logical) Logical { return Logical{l[0] + o[0], l[1] + o[1]} }

// Neg returns −l.
func (l Logical) Neg() Logical { return Logical{-l[0], -l[1]} }

// Point views l as an r2.Point (i → X, j → Y) for geometric tests in logical space.
func (l Logical) Point() r2.Point { return r2.Point{X: l[0], Y: l[1]} }

// Node is one arena node record.
type Node struct {
	// XY is the physical position.
	XY r2.Point

	// Fixed holds caller-supplied logical coordinates; NaN axes are free.
	Fixed Logical

	// IJ is the exact-scale logical coordinate and IJFixed marks axes copied
	// from Fixed (the rest are interpolated).
	IJ      Logical
	IJFixed [2]bool

	// NomIJ is the nominal-resolution logical coordinate.
	NomIJ      Logical
	NomIJFixed [2]bool

	// Rigid marks intermediate-grid nodes pinned to a generating node.
	Rigid bool

	// GenEdge is the generating edge a boundary node lies on, NoEdge otherwise.
	GenEdge int

	// Deleted is the tombstone bit.
	Deleted bool
}

// Edge is one arena edge record.
type Edge struct {
	// Nodes are the endpoints; the edge direction is Nodes[0] → Nodes[1].
	Nodes [2]int

	// Cells are the cells left and right of the directed edge (NoCell if none).
	Cells [2]int

	// Delta is an optional caller override of the exact-scale logical delta;
	// NaN axes are derived from node coordinates.
	Delta Logical

	// DIJ and NomDIJ are the logical deltas Nodes[1] − Nodes[0] at each scale.
	DIJ    Logical
	NomDIJ Logical

	// Bezier is the cubic control polygon (P0, C1, C2, P3) with P0/P3 at the
	// physical endpoints, filled by the boundary fitter.
	Bezier [4]r2.Point

	// Deleted is the tombstone bit.
	Deleted bool
}

// Cell is one arena cell record.
type Cell struct {
	// Nodes lists the corners counter-clockwise.
	Nodes []int

	// Edges[k] joins Nodes[k] and Nodes[k+1].
	Edges []int

	// Deleted is the tombstone bit.
	Deleted bool
}

// edgeKey is the unordered endpoint pair used for edge lookup.
type edgeKey struct {
	a, b int // a < b
}

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Grid is an arena of nodes, edges and cells.
type Grid struct {
	Nodes []Node
	Edges []Edge
	Cells []Cell

	nodeEdges [][]int         // node id → incident live edge ids
	edgeIndex map[edgeKey]int // endpoint pair → live edge id
}

// NewGrid returns an empty Grid.
// Complexity: O(1).
func NewGrid() *Grid {
	return &Grid{edgeIndex: make(map[edgeKey]int)}
}
