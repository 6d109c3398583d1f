package interp

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/golang/geo/r2"
)

// Triangulation is a Delaunay triangulation of Points. Tris hold indices into
// Points in counter-clockwise order; exact duplicates are left out of Tris.
type Triangulation struct {
	Points []r2.Point
	Tris   [][3]int
}

// slivEps is the relative area under which a triangle counts as collinear.
const slivEps = 1e-13

// Delaunay triangulates pts.
//
// Implementation:
//   - Stage 1: validate the cloud (finite, at least three points).
//   - Stage 2: triangulate with fogleman/delaunay (sweep-hull).
//   - Stage 3: orient every triangle counter-clockwise and drop slivers whose
//     area is negligible against the cloud's bounding box.
//
// Errors:
//   - ErrNonFinite for NaN/Inf input.
//   - ErrDegenerateCloud for fewer than three distinct or all-collinear points.
func Delaunay(pts []r2.Point) (*Triangulation, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("Delaunay: %d points: %w", len(pts), ErrDegenerateCloud)
	}
	lo := r2.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	in := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		if !finite(p) {
			return nil, fmt.Errorf("Delaunay: point %d: %w", i, ErrNonFinite)
		}
		lo = r2.Point{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = r2.Point{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		in[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	span := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	if span == 0 {
		return nil, fmt.Errorf("Delaunay: coincident points: %w", ErrDegenerateCloud)
	}

	dt, err := delaunay.Triangulate(in)
	if err != nil {
		return nil, fmt.Errorf("Delaunay: %v: %w", err, ErrDegenerateCloud)
	}

	out := &Triangulation{Points: pts}
	minArea := slivEps * span * span
	for k := 0; k+2 < len(dt.Triangles); k += 3 {
		t := [3]int{dt.Triangles[k], dt.Triangles[k+1], dt.Triangles[k+2]}
		area := orient(pts[t[0]], pts[t[1]], pts[t[2]])
		if math.Abs(area) <= minArea {
			continue
		}
		if area < 0 {
			t[1], t[2] = t[2], t[1]
		}
		out.Tris = append(out.Tris, t)
	}
	if len(out.Tris) == 0 {
		return nil, fmt.Errorf("Delaunay: collinear points: %w", ErrDegenerateCloud)
	}

	return out, nil
}

func finite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// orient returns twice the signed area of abc (positive counter-clockwise).
func orient(a, b, c r2.Point) float64 { return b.Sub(a).Cross(c.Sub(a)) }
