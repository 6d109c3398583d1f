// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"

	"github.com/katalvlaran/quadmesh/matrix"
)

// elimination folds Dirichlet pins and tangential groups into the unknowns
// of a least-squares system: a pinned unknown becomes a right-hand-side
// term and every group member shares its leader's column. The rows that
// encoded those constraints are dropped, so the constraints hold exactly
// instead of competing with the stencil rows.
type elimination struct {
	parent map[int]int     // member → leader
	fixed  map[int]float64 // pinned unknowns (by root after resolve)
	drop   map[int]bool    // constraint rows
	col    map[int]int     // root unknown → reduced column
	n      int             // unknowns of the full system
}

func newElimination(n int) *elimination {
	return &elimination{
		parent: make(map[int]int),
		fixed:  make(map[int]float64),
		drop:   make(map[int]bool),
		n:      n,
	}
}

// root follows member links to the group leader.
func (e *elimination) root(u int) int {
	for {
		p, ok := e.parent[u]
		if !ok {
			return u
		}
		u = p
	}
}

// pin fixes unknown u to v and drops row u.
func (e *elimination) pin(u int, v float64) {
	e.fixed[u] = v
	e.drop[u] = true
}

// group ties every node of grp (shifted by offset) to grp[0] and drops their rows.
func (e *elimination) group(grp []int, offset int) {
	leader := e.root(grp[0] + offset)
	for _, node := range grp {
		u := node + offset
		e.drop[u] = true
		if r := e.root(u); r != leader {
			e.parent[r] = leader
		}
	}
}

// resolve moves every pin to its group root and numbers the free roots.
// It returns the number of free columns.
func (e *elimination) resolve() int {
	pins := make(map[int]float64, len(e.fixed))
	for u, v := range e.fixed {
		r := e.root(u)
		if _, ok := pins[r]; !ok || r == u {
			pins[r] = v
		}
	}
	e.fixed = pins

	e.col = make(map[int]int)
	for u := 0; u < e.n; u++ {
		if r := e.root(u); r == u {
			if _, ok := e.fixed[u]; !ok {
				e.col[u] = len(e.col)
			}
		}
	}

	return len(e.col)
}

// reduce drops the constraint rows of a and substitutes the eliminated
// unknowns. Call resolve first.
func (e *elimination) reduce(a *matrix.CSR, b []float64) (*matrix.CSR, []float64, error) {
	if a.Cols() != e.n || len(b) != a.Rows() {
		return nil, nil, fmt.Errorf("reduce %dx%d system with %d unknowns, rhs %d: %w",
			a.Rows(), a.Cols(), e.n, len(b), matrix.ErrDimensionMismatch)
	}
	keep := make([]int, 0, a.Rows())
	for i := 0; i < a.Rows(); i++ {
		if !e.drop[i] {
			keep = append(keep, i)
		}
	}
	bld, err := matrix.NewBuilder(len(keep), len(e.col))
	if err != nil {
		return nil, nil, err
	}
	rhs := make([]float64, len(keep))
	for k, i := range keep {
		rhs[k] = b[i]
		a.Row(i, func(j int, v float64) {
			r := e.root(j)
			if pv, ok := e.fixed[r]; ok {
				rhs[k] -= v * pv
				return
			}
			if err == nil {
				err = bld.Add(k, e.col[r], v)
			}
		})
		if err != nil {
			return nil, nil, err
		}
	}

	return bld.ToCSR(), rhs, nil
}

// expand maps a reduced solution back to all n unknowns.
func (e *elimination) expand(x []float64) []float64 {
	out := make([]float64, e.n)
	for u := range out {
		r := e.root(u)
		if v, ok := e.fixed[r]; ok {
			out[u] = v
		} else {
			out[u] = x[e.col[r]]
		}
	}

	return out
}
