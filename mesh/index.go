// File: index.go
// Role: R-tree backed nearest-node queries.
//
// Determinism:
//   - Ties in distance resolve to the lower node id.

package mesh

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/peterstace/simplefeatures/rtree"
)

// NodeIndex is a static spatial index over the live nodes of a Grid at the
// time of construction. Later moves or additions are not reflected.
type NodeIndex struct {
	tree *rtree.RTree
	pts  map[int]r2.Point
}

// NewNodeIndex bulk-loads the live nodes of g.
// Complexity: O(V log V).
func NewNodeIndex(g *Grid) *NodeIndex {
	ids := g.NodeIDs()
	items := make([]rtree.BulkItem, len(ids))
	pts := make(map[int]r2.Point, len(ids))
	for k, n := range ids {
		p := g.Nodes[n].XY
		items[k] = rtree.BulkItem{Box: pointBox(p), RecordID: n}
		pts[n] = p
	}

	return &NodeIndex{tree: rtree.BulkLoad(items), pts: pts}
}

func pointBox(p r2.Point) rtree.Box {
	return rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// Len returns the number of indexed nodes.
func (ix *NodeIndex) Len() int { return len(ix.pts) }

// Nearest returns the indexed node closest to p, or false for an empty index.
// Complexity: O(log V) expected.
func (ix *NodeIndex) Nearest(p r2.Point) (int, bool) {
	best, bestD := -1, math.Inf(1)
	_ = ix.tree.PrioritySearch(pointBox(p), func(n int) error {
		d := ix.pts[n].Sub(p).Norm()
		if d > bestD {
			return rtree.Stop
		}
		if d < bestD || (d == bestD && n < best) {
			best, bestD = n, d
		}
		return nil
	})

	return best, best >= 0
}

// Within returns the indexed nodes at most tol from p, in ascending id order.
func (ix *NodeIndex) Within(p r2.Point, tol float64) []int {
	var out []int
	box := rtree.Box{MinX: p.X - tol, MinY: p.Y - tol, MaxX: p.X + tol, MaxY: p.Y + tol}
	_ = ix.tree.RangeSearch(box, func(n int) error {
		if ix.pts[n].Sub(p).Norm() <= tol {
			out = append(out, n)
		}
		return nil
	})
	sort.Ints(out)

	return out
}

// SelectNearest returns the live node of g closest to p.
// It scans every node; build a NodeIndex for repeated queries.
// Complexity: O(V).
func (g *Grid) SelectNearest(p r2.Point) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for n := range g.Nodes {
		if g.Nodes[n].Deleted {
			continue
		}
		if d := g.Nodes[n].XY.Sub(p).Norm(); d < bestD {
			best, bestD = n, d
		}
	}

	return best, best >= 0
}
