package interp

import (
	"math"
	"sort"
)

// Interp1 evaluates the piecewise-linear function through (xp[k], fp[k]) at x.
// xp must be non-decreasing. Outside [xp[0], xp[len-1]] the end values are
// returned (clamped, no extrapolation). An empty table yields NaN.
// Complexity: O(log len(xp)).
func Interp1(x float64, xp, fp []float64) float64 {
	n := len(xp)
	switch {
	case n == 0:
		return math.NaN()
	case x <= xp[0]:
		return fp[0]
	case x >= xp[n-1]:
		return fp[n-1]
	}
	// first k with xp[k] > x; 1 <= k <= n-1
	k := sort.Search(n, func(i int) bool { return xp[i] > x })
	x0, x1 := xp[k-1], xp[k]
	if x1 == x0 {
		return fp[k]
	}
	t := (x - x0) / (x1 - x0)

	return fp[k-1] + t*(fp[k]-fp[k-1])
}

// GroupMeans groups vals by exactly equal keys and returns the distinct keys
// in ascending order with the mean value of each group.
// Complexity: O(n log n).
func GroupMeans(keys, vals []float64) (uniq, means []float64) {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })

	for s := 0; s < len(idx); {
		e := s
		var sum float64
		for e < len(idx) && keys[idx[e]] == keys[idx[s]] {
			sum += vals[idx[e]]
			e++
		}
		uniq = append(uniq, keys[idx[s]])
		means = append(means, sum/float64(e-s))
		s = e
	}

	return uniq, means
}
