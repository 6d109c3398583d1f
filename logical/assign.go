package logical

import (
	"fmt"
	"math"

	"github.com/katalvlaran/quadmesh/interp"
	"github.com/katalvlaran/quadmesh/mesh"
)

// Coalesce copies each node's caller-fixed coordinates into the exact field
// and records which axes were fixed.
// Complexity: O(V).
func Coalesce(g *mesh.Grid) {
	for _, n := range g.NodeIDs() {
		nd := &g.Nodes[n]
		nd.IJ = nd.Fixed
		nd.IJFixed = [2]bool{nd.Fixed.Finite(0), nd.Fixed.Finite(1)}
	}
}

// distAlong returns the cumulative physical arc length along a node string.
func distAlong(g *mesh.Grid, s []int) []float64 {
	d := make([]float64, len(s))
	for k := 1; k < len(s); k++ {
		d[k] = d[k-1] + g.Nodes[s[k]].XY.Sub(g.Nodes[s[k-1]].XY).Norm()
	}

	return d
}

// FillInterp fills the free values of the scale-s field by linear
// interpolation in arc length along each maximal linear string between the
// string's finite values; beyond the last finite value the end value holds.
// Closed strings are rotated to start at their first finite value so the
// interpolation wraps around.
//
// Errors:
//   - ErrNoFixedLogical if a string has free values but no finite value on an axis.
//
// Complexity: O(V + E + Σ|string| log |string|).
func FillInterp(g *mesh.Grid, s Scale) error {
	strs := g.ExtractLinearStrings()
	for axis := 0; axis < 2; axis++ {
		for _, str := range strs {
			str = append([]int(nil), str...)
			valid := func(n int) bool { return NodeIJ(g, s, n).Finite(axis) }

			if len(str) > 1 && str[0] == str[len(str)-1] {
				first := -1
				for k, n := range str[:len(str)-1] {
					if valid(n) {
						first = k
						break
					}
				}
				if first >= 0 {
					ring := str[:len(str)-1]
					rolled := append(append([]int(nil), ring[first:]...), ring[:first]...)
					str = append(rolled, rolled[0])
				}
			}

			dists := distAlong(g, str)
			var xp, fp []float64
			missing := false
			for k, n := range str {
				if valid(n) {
					xp = append(xp, dists[k])
					fp = append(fp, NodeIJ(g, s, n)[axis])
				} else {
					missing = true
				}
			}
			if !missing {
				continue
			}
			if len(xp) == 0 {
				return fmt.Errorf("FillInterp(%s) axis %d, string from node %d: %w", s, axis, str[0], ErrNoFixedLogical)
			}
			for k, n := range str {
				if !valid(n) {
					NodeIJ(g, s, n)[axis] = interp.Interp1(dists[k], xp, fp)
				}
			}
		}
	}

	return nil
}

// CoalesceNominal computes the nominal-scale coordinates of the fixed nodes
// of the single boundary cycle; free nodes are left NaN for FillInterp.
//
// Implementation (per axis):
//   - Stage 1: rotate the cycle to start at its first fixed node and close it.
//   - Stage 2: between consecutive fixed nodes a, b take
//     int(sign(Δ)·max(minSteps, arc(a,b)/nomRes)) steps, or 0 when Δ == 0.
//   - Stage 3: spread the residual sum over the steps in proportion to the
//     cumulative step size (round half to even), then restore any non-zero
//     step pushed below minSteps by growing the largest opposite-signed step.
//   - Stage 4: the first fixed node gets 0, the others the running sum.
//
// Errors:
//   - mesh.ErrNoCycle, mesh.ErrMultipleCycles, mesh.ErrPinchedBoundary.
//   - ErrNoFixedLogical when the cycle has no fixed value on an axis.
//
// Complexity: O(V + E).
func CoalesceNominal(g *mesh.Grid, nomRes float64, minSteps int) error {
	cycle, err := g.BoundaryCycle()
	if err != nil {
		return fmt.Errorf("CoalesceNominal: %w", err)
	}
	for _, n := range g.NodeIDs() {
		nd := &g.Nodes[n]
		nd.NomIJ = mesh.FreeLogical()
		nd.NomIJFixed = [2]bool{nd.Fixed.Finite(0), nd.Fixed.Finite(1)}
	}

	for axis := 0; axis < 2; axis++ {
		first := -1
		for k, n := range cycle {
			if g.Nodes[n].Fixed.Finite(axis) {
				first = k
				break
			}
		}
		if first < 0 {
			return fmt.Errorf("CoalesceNominal: axis %d: %w", axis, ErrNoFixedLogical)
		}
		s := append(append([]int(nil), cycle[first:]...), cycle[:first]...)
		s = append(s, s[0])
		dists := distAlong(g, s)

		var fixed []int
		for k, n := range s {
			if g.Nodes[n].Fixed.Finite(axis) {
				fixed = append(fixed, k)
			}
		}

		type step struct{ a, b, d int }
		steps := make([]step, 0, len(fixed)-1)
		for k := 0; k+1 < len(fixed); k++ {
			a, b := fixed[k], fixed[k+1]
			dij := g.Nodes[s[b]].Fixed[axis] - g.Nodes[s[a]].Fixed[axis]
			st := step{a: s[a], b: s[b]}
			if dij != 0 {
				n := math.Max(float64(minSteps), (dists[b]-dists[a])/nomRes)
				st.d = int(math.Copysign(1, dij) * n)
			}
			steps = append(steps, st)
		}

		d := make([]int, len(steps))
		for k, st := range steps {
			d[k] = st.d
		}
		closeSteps(d, minSteps)

		g.Nodes[s[0]].NomIJ[axis] = 0
		acc := 0
		for k := 0; k+1 < len(steps); k++ {
			acc += d[k]
			g.Nodes[steps[k].b].NomIJ[axis] = float64(acc)
		}
	}

	return nil
}

// closeSteps makes the integer steps sum to zero while keeping every
// non-zero step at least minSteps in magnitude with its original sign.
func closeSteps(d []int, minSteps int) {
	errSum, total := 0, 0
	sign := make([]int, len(d))
	for k, v := range d {
		errSum += v
		total += abs(v)
		sign[k] = cmpInt(v, 0)
	}
	if errSum == 0 || total == 0 {
		return
	}

	prev := 0.0
	cum := 0
	for k, v := range d {
		cum += abs(v)
		next := math.RoundToEven(float64(errSum) * float64(cum) / float64(total))
		d[k] -= int(next - prev)
		prev = next
	}

	for k := range d {
		if sign[k] == 0 {
			continue
		}
		want := sign[k] * minSteps
		if d[k]*sign[k] >= minSteps {
			continue
		}
		deficit := want - d[k]
		d[k] = want
		// absorb on the largest step of opposite sign, growing its magnitude
		best := -1
		for j := range d {
			if sign[j] == -sign[k] && (best < 0 || abs(d[j]) > abs(d[best])) {
				best = j
			}
		}
		if best >= 0 {
			d[best] -= deficit
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// EdgeDeltas sets each live edge's delta at scale s to the difference of its
// endpoint coordinates. At the exact scale a finite Edge.Delta axis overrides
// the derived value.
// Complexity: O(E).
func EdgeDeltas(g *mesh.Grid, s Scale) {
	for _, e := range g.EdgeIDs() {
		ed := &g.Edges[e]
		d := NodeIJ(g, s, ed.Nodes[1]).Sub(*NodeIJ(g, s, ed.Nodes[0]))
		if s == Exact {
			for axis := 0; axis < 2; axis++ {
				if ed.Delta.Finite(axis) {
					d[axis] = ed.Delta[axis]
				}
			}
		}
		*EdgeDIJ(g, s, e) = d
	}
}

// ValidateClosure checks that the scale-s edge deltas sum to zero, within
// tol per axis, around every live cell and every boundary cycle.
//
// Errors:
//   - ErrNonClosingCycle with the offending cycle and its sum.
//   - errors of mesh.Grid.BoundaryCycles.
//
// Complexity: O(E + Σ|cell|).
func ValidateClosure(g *mesh.Grid, s Scale, tol float64) error {
	for _, c := range g.CellIDs() {
		edges, flip := g.CellEdges(c)
		if sum := sumDeltas(g, s, edges, flip); !closes(sum, tol) {
			return fmt.Errorf("ValidateClosure(%s): cell %d sums to %v: %w", s, c, sum, ErrNonClosingCycle)
		}
	}
	cycles, err := g.BoundaryCycles()
	if err != nil {
		return fmt.Errorf("ValidateClosure(%s): %w", s, err)
	}
	for _, cyc := range cycles {
		edges, err := g.CycleEdges(cyc)
		if err != nil {
			return fmt.Errorf("ValidateClosure(%s): %w", s, err)
		}
		flip := make([]bool, len(edges))
		for k, e := range edges {
			flip[k] = g.Edges[e].Nodes[0] != cyc[k]
		}
		if sum := sumDeltas(g, s, edges, flip); !closes(sum, tol) {
			return fmt.Errorf("ValidateClosure(%s): boundary cycle at node %d sums to %v: %w", s, cyc[0], sum, ErrNonClosingCycle)
		}
	}

	return nil
}

func sumDeltas(g *mesh.Grid, s Scale, edges []int, flip []bool) mesh.Logical {
	var sum mesh.Logical
	for k, e := range edges {
		d := *EdgeDIJ(g, s, e)
		if flip[k] {
			d = d.Neg()
		}
		sum = sum.Add(d)
	}

	return sum
}

func closes(sum mesh.Logical, tol float64) bool {
	return math.Abs(sum[0]) <= tol && math.Abs(sum[1]) <= tol
}
