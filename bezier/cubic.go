package bezier

import "github.com/golang/geo/r2"

// Cubic is a cubic Bezier control polygon (P0, C1, C2, P3).
type Cubic [4]r2.Point

// Line returns the straight cubic from p0 to p3 with thirds as controls.
func Line(p0, p3 r2.Point) Cubic {
	d := p3.Sub(p0)
	return Cubic{p0, p0.Add(d.Mul(1.0 / 3)), p0.Add(d.Mul(2.0 / 3)), p3}
}

// At evaluates the curve at parameter t in [0, 1].
func (c Cubic) At(t float64) r2.Point {
	s := 1 - t
	b0 := s * s * s
	b1 := 3 * s * s * t
	b2 := 3 * s * t * t
	b3 := t * t * t

	return c[0].Mul(b0).Add(c[1].Mul(b1)).Add(c[2].Mul(b2)).Add(c[3].Mul(b3))
}

// Sample returns n+1 points at evenly spaced parameters 0, 1/n, ..., 1.
func (c Cubic) Sample(n int) []r2.Point {
	out := make([]r2.Point, n+1)
	for k := 0; k <= n; k++ {
		out[k] = c.At(float64(k) / float64(n))
	}

	return out
}

// Reverse returns the same curve traversed from P3 to P0.
func (c Cubic) Reverse() Cubic { return Cubic{c[3], c[2], c[1], c[0]} }
