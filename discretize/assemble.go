package discretize

import (
	"fmt"

	"github.com/katalvlaran/quadmesh/matrix"
)

// ConstructMatrix assembles the square operator matrix over every node id of
// the grid (tombstones get empty rows) and its right-hand side.
//
// Row precedence per node:
//   - dirichlet[n] = v: identity row, rhs v.
//   - member of a tangential group: the group leader (groups[k][0]) gets an
//     empty row, any other member the equality row n − leader = 0. A node in
//     several groups follows the last group listing it.
//   - otherwise: the op stencil from NodeRow.
//
// Errors:
//   - matrix.ErrBadShape for an empty grid.
//   - errors of NodeRow.
//
// Complexity: O(V·d log d).
func (d *Discretization) ConstructMatrix(op Operator, dirichlet map[int]float64, groups [][]int) (*matrix.CSR, []float64, error) {
	n := d.g.NumNodes()
	b, err := matrix.NewBuilder(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("ConstructMatrix: %w", err)
	}
	rhs := make([]float64, n)

	leaderOf := make(map[int]int)
	for _, grp := range groups {
		if len(grp) == 0 {
			continue
		}
		for _, member := range grp {
			leaderOf[member] = grp[0]
		}
	}

	for i := 0; i < n; i++ {
		if !d.g.NodeValid(i) {
			continue
		}
		if v, ok := dirichlet[i]; ok {
			if err = b.Set(i, i, 1); err != nil {
				return nil, nil, fmt.Errorf("ConstructMatrix: %w", err)
			}
			rhs[i] = v
			continue
		}
		if leader, ok := leaderOf[i]; ok {
			if leader != i {
				if err = b.Set(i, i, 1); err == nil {
					err = b.Set(i, leader, -1)
				}
				if err != nil {
					return nil, nil, fmt.Errorf("ConstructMatrix: %w", err)
				}
			}
			continue
		}

		row, err := d.NodeRow(i, op)
		if err != nil {
			return nil, nil, fmt.Errorf("ConstructMatrix: %w", err)
		}
		for k, node := range row.Nodes {
			if err = b.Set(i, node, row.Coeffs[k]); err != nil {
				return nil, nil, fmt.Errorf("ConstructMatrix: %w", err)
			}
		}
		rhs[i] = row.RHS
	}

	return b.ToCSR(), rhs, nil
}
