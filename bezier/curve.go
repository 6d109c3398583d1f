package bezier

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/peterstace/simplefeatures/rtree"

	"github.com/katalvlaran/quadmesh/mesh"
)

// Curve is a closed polyline sampled from the fitted Bezier boundary.
type Curve struct {
	pts   []r2.Point // closed: segment k joins pts[k] and pts[(k+1)%len]
	cum   []float64  // arc length at pts[k]
	total float64
	segs  *rtree.RTree
}

// NewCurve samples the Bezier boundary of g counter-clockwise with
// samplesPerEdge points per edge. Fit must have run.
//
// Errors: ErrBadSamples, the boundary-cycle errors of mesh.
// Complexity: O(E·samplesPerEdge).
func NewCurve(g *mesh.Grid, samplesPerEdge int) (*Curve, error) {
	if samplesPerEdge <= 0 {
		return nil, fmt.Errorf("NewCurve(%d): %w", samplesPerEdge, ErrBadSamples)
	}
	cycle, err := g.BoundaryCycle()
	if err != nil {
		return nil, fmt.Errorf("NewCurve: %w", err)
	}
	edges, err := g.CycleEdges(cycle)
	if err != nil {
		return nil, fmt.Errorf("NewCurve: %w: %w", ErrMissingEdge, err)
	}

	var pts []r2.Point
	for k, e := range edges {
		bez := Cubic(g.Edges[e].Bezier)
		if g.Edges[e].Nodes[0] != cycle[k] {
			bez = bez.Reverse()
		}
		s := bez.Sample(samplesPerEdge)
		pts = append(pts, s[:len(s)-1]...)
	}

	return FromPoints(pts), nil
}

// FromPoints builds a closed Curve through pts.
func FromPoints(pts []r2.Point) *Curve {
	c := &Curve{pts: append([]r2.Point(nil), pts...), cum: make([]float64, len(pts))}
	items := make([]rtree.BulkItem, len(pts))
	for k := range c.pts {
		a, b := c.segment(k)
		if k > 0 {
			c.cum[k] = c.cum[k-1] + c.pts[k].Sub(c.pts[k-1]).Norm()
		}
		items[k] = rtree.BulkItem{
			Box: rtree.Box{
				MinX: math.Min(a.X, b.X), MinY: math.Min(a.Y, b.Y),
				MaxX: math.Max(a.X, b.X), MaxY: math.Max(a.Y, b.Y),
			},
			RecordID: k,
		}
	}
	if n := len(c.pts); n > 0 {
		c.total = c.cum[n-1] + c.pts[0].Sub(c.pts[n-1]).Norm()
	}
	c.segs = rtree.BulkLoad(items)

	return c
}

func (c *Curve) segment(k int) (r2.Point, r2.Point) {
	return c.pts[k], c.pts[(k+1)%len(c.pts)]
}

// Points returns the sample points (the closing segment is implicit).
func (c *Curve) Points() []r2.Point { return c.pts }

// Length returns the closed perimeter.
func (c *Curve) Length() float64 { return c.total }

// At returns the point at arc-length parameter f, taken modulo Length.
func (c *Curve) At(f float64) r2.Point {
	if len(c.pts) == 0 {
		return r2.Point{}
	}
	if c.total == 0 {
		return c.pts[0]
	}
	f = math.Mod(f, c.total)
	if f < 0 {
		f += c.total
	}
	k := len(c.cum) - 1
	for k > 0 && c.cum[k] > f {
		k--
	}
	a, b := c.segment(k)
	l := b.Sub(a).Norm()
	if l == 0 {
		return a
	}

	return a.Add(b.Sub(a).Mul((f - c.cum[k]) / l))
}

// Closest projects p onto the curve and returns the projection and its
// arc-length parameter. Ties go to the lower segment.
// Complexity: O(log S) expected.
func (c *Curve) Closest(p r2.Point) (r2.Point, float64) {
	if len(c.pts) == 0 {
		return p, 0
	}
	best, bestDist, bestS := -1, math.Inf(1), 0.0
	q := rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	_ = c.segs.PrioritySearch(q, func(k int) error {
		a, b := c.segment(k)
		box := rtree.Box{
			MinX: math.Min(a.X, b.X), MinY: math.Min(a.Y, b.Y),
			MaxX: math.Max(a.X, b.X), MaxY: math.Max(a.Y, b.Y),
		}
		if boxDist(box, p) > bestDist {
			return rtree.Stop
		}
		s, proj := project(a, b, p)
		d := p.Sub(proj).Norm()
		if d < bestDist || (d == bestDist && k < best) {
			best, bestDist, bestS = k, d, s
		}
		return nil
	})
	a, b := c.segment(best)
	f := c.cum[best] + bestS*b.Sub(a).Norm()

	return a.Add(b.Sub(a).Mul(bestS)), f
}

// project returns the clamped segment parameter and point nearest p.
func project(a, b, p r2.Point) (float64, r2.Point) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return 0, a
	}
	s := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))

	return s, a.Add(ab.Mul(s))
}

func boxDist(b rtree.Box, p r2.Point) float64 {
	dx := math.Max(0, math.Max(b.MinX-p.X, p.X-b.MaxX))
	dy := math.Max(0, math.Max(b.MinY-p.Y, p.Y-b.MaxY))

	return math.Hypot(dx, dy)
}
