package interp

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/peterstace/simplefeatures/rtree"
)

// baryEps is the barycentric tolerance for "inside a triangle".
const baryEps = 1e-9

// Option configures a Linear interpolator.
type Option func(*linearConfig)

type linearConfig struct {
	radius float64
}

// WithRadius bounds extrapolation: queries farther than r from every
// triangle fail with ErrOutsideRadius. r <= 0 means unbounded (default).
func WithRadius(r float64) Option {
	if math.IsNaN(r) {
		panic("interp: WithRadius: radius must not be NaN")
	}

	return func(c *linearConfig) { c.radius = r }
}

// Linear interpolates vector values given at scattered points, linearly
// within each Delaunay triangle and by the nearest triangle's plane outside.
type Linear struct {
	tri    *Triangulation
	vals   []r2.Point
	index  *rtree.RTree
	radius float64
}

// NewLinear triangulates src and binds vals[i] to src[i].
// Errors: ErrLengthMismatch, ErrNonFinite, ErrDegenerateCloud.
func NewLinear(src, vals []r2.Point, opts ...Option) (*Linear, error) {
	if len(src) != len(vals) {
		return nil, fmt.Errorf("NewLinear: %d points, %d values: %w", len(src), len(vals), ErrLengthMismatch)
	}
	for i, v := range vals {
		if !finite(v) {
			return nil, fmt.Errorf("NewLinear: value %d: %w", i, ErrNonFinite)
		}
	}
	tri, err := Delaunay(src)
	if err != nil {
		return nil, fmt.Errorf("NewLinear: %w", err)
	}

	cfg := linearConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	items := make([]rtree.BulkItem, len(tri.Tris))
	for k, t := range tri.Tris {
		items[k] = rtree.BulkItem{Box: triBox(tri.Points, t), RecordID: k}
	}

	return &Linear{
		tri:    tri,
		vals:   append([]r2.Point(nil), vals...),
		index:  rtree.BulkLoad(items),
		radius: cfg.radius,
	}, nil
}

// Triangulation exposes the underlying triangulation (read-only).
func (l *Linear) Triangulation() *Triangulation { return l.tri }

func triBox(pts []r2.Point, t [3]int) rtree.Box {
	a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
	return rtree.Box{
		MinX: math.Min(a.X, math.Min(b.X, c.X)),
		MinY: math.Min(a.Y, math.Min(b.Y, c.Y)),
		MaxX: math.Max(a.X, math.Max(b.X, c.X)),
		MaxY: math.Max(a.Y, math.Max(b.Y, c.Y)),
	}
}

// barycentric returns the weights of p with respect to triangle t.
func (l *Linear) barycentric(t [3]int, p r2.Point) (w0, w1, w2 float64) {
	a, b, c := l.tri.Points[t[0]], l.tri.Points[t[1]], l.tri.Points[t[2]]
	area := orient(a, b, c)
	w0 = orient(p, b, c) / area
	w1 = orient(a, p, c) / area
	w2 = 1 - w0 - w1

	return w0, w1, w2
}

func (l *Linear) eval(t [3]int, p r2.Point) r2.Point {
	w0, w1, w2 := l.barycentric(t, p)
	return l.vals[t[0]].Mul(w0).Add(l.vals[t[1]].Mul(w1)).Add(l.vals[t[2]].Mul(w2))
}

// At evaluates the interpolant at p.
//
// Errors:
//   - ErrNonFinite for a non-finite query or result.
//   - ErrOutsideRadius when p is farther than the configured radius.
func (l *Linear) At(p r2.Point) (r2.Point, error) {
	if !finite(p) {
		return r2.Point{}, fmt.Errorf("Linear.At(%v): %w", p, ErrNonFinite)
	}

	best, bestDist := -1, math.Inf(1)
	q := rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	_ = l.index.RangeSearch(q, func(k int) error {
		w0, w1, w2 := l.barycentric(l.tri.Tris[k], p)
		if w0 >= -baryEps && w1 >= -baryEps && w2 >= -baryEps {
			best, bestDist = k, 0
			return rtree.Stop
		}
		return nil
	})

	if best < 0 {
		_ = l.index.PrioritySearch(q, func(k int) error {
			t := l.tri.Tris[k]
			if boxDist(triBox(l.tri.Points, t), p) > bestDist {
				return rtree.Stop
			}
			if d := l.triDist(t, p); d < bestDist {
				best, bestDist = k, d
			}
			return nil
		})
	}
	if l.radius > 0 && bestDist > l.radius {
		return r2.Point{}, fmt.Errorf("Linear.At(%v): distance %g: %w", p, bestDist, ErrOutsideRadius)
	}

	v := l.eval(l.tri.Tris[best], p)
	if !finite(v) {
		return r2.Point{}, fmt.Errorf("Linear.At(%v): %w", p, ErrNonFinite)
	}

	return v, nil
}

// AtAll evaluates the interpolant at every point, stopping at the first error.
func (l *Linear) AtAll(ps []r2.Point) ([]r2.Point, error) {
	out := make([]r2.Point, len(ps))
	for i, p := range ps {
		v, err := l.At(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func boxDist(b rtree.Box, p r2.Point) float64 {
	dx := math.Max(0, math.Max(b.MinX-p.X, p.X-b.MaxX))
	dy := math.Max(0, math.Max(b.MinY-p.Y, p.Y-b.MaxY))

	return math.Hypot(dx, dy)
}

// triDist is the distance from p to the closed triangle t.
func (l *Linear) triDist(t [3]int, p r2.Point) float64 {
	w0, w1, w2 := l.barycentric(t, p)
	if w0 >= 0 && w1 >= 0 && w2 >= 0 {
		return 0
	}
	d := math.Inf(1)
	for e := 0; e < 3; e++ {
		a, b := l.tri.Points[t[e]], l.tri.Points[t[(e+1)%3]]
		d = math.Min(d, segDist(a, b, p))
	}

	return d
}

func segDist(a, b, p r2.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Norm()
	}
	s := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))

	return p.Sub(a.Add(ab.Mul(s))).Norm()
}
