package quadgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quadmesh/matrix"
)

func TestElimination_PinAndGroup(t *testing.T) {
	// u0 = 2 and u1 = u2 by construction; rows 3 and 4 are fitted.
	b, err := matrix.NewBuilder(5, 3)
	require.NoError(t, err)
	for _, e := range []struct {
		i, j int
		v    float64
	}{
		{0, 0, 1},
		{1, 1, 1}, {1, 2, -1},
		{3, 0, 1}, {3, 1, 1},
		{4, 0, 1}, {4, 2, 2},
	} {
		require.NoError(t, b.Set(e.i, e.j, e.v))
	}
	rhs := []float64{2, 0, 0, 5, 9}

	elim := newElimination(3)
	elim.pin(0, 2)
	elim.group([]int{1, 2}, 0)
	require.Equal(t, 1, elim.resolve())

	red, redRHS, err := elim.reduce(b.ToCSR(), rhs)
	require.NoError(t, err)
	assert.Equal(t, 2, red.Rows())
	assert.Equal(t, 1, red.Cols())
	assert.Equal(t, []float64{3, 7}, redRHS)

	res, err := matrix.Solve(red, redRHS)
	require.NoError(t, err)
	x := elim.expand(res.X)
	// least squares of [1; 2]·s = [3; 7]
	assert.InDelta(t, 2, x[0], 1e-12)
	assert.InDelta(t, 3.4, x[1], 1e-12)
	assert.Equal(t, x[1], x[2])
}

func TestElimination_PinOnMemberMovesToLeader(t *testing.T) {
	elim := newElimination(4)
	elim.group([]int{0, 1, 2}, 0)
	elim.pin(2, -1)
	require.Equal(t, 1, elim.resolve())

	x := elim.expand([]float64{7})
	assert.Equal(t, []float64{-1, -1, -1, 7}, x)
}

func TestElimination_ShapeMismatch(t *testing.T) {
	b, err := matrix.NewBuilder(2, 2)
	require.NoError(t, err)
	elim := newElimination(3)
	elim.resolve()
	_, _, err = elim.reduce(b.ToCSR(), []float64{0, 0})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
