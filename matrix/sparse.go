// SPDX-License-Identifier: MIT

// Package matrix: sparse assembly and compressed-row storage.
//
// Assembly is incremental: a Builder accepts element-by-element Set/Add in any
// order (dictionary of keys), and ToCSR converts it once into an immutable CSR
// ready for the solvers. Rows that never receive an entry stay empty; the
// solvers treat them as 0 = rhs equations.
package matrix

import (
	"fmt"
	"sort"
)

// cellKey addresses one entry of a Builder.
type cellKey struct {
	r int // row index
	c int // column index
}

// Builder is a mutable dictionary-of-keys sparse matrix.
// The zero value is not usable; construct with NewBuilder.
type Builder struct {
	r, c    int
	entries map[cellKey]float64
}

// NewBuilder returns an empty rows×cols Builder.
// Returns ErrBadShape when rows or cols is not positive.
func NewBuilder(rows, cols int) (*Builder, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadShape
	}

	return &Builder{r: rows, c: cols, entries: make(map[cellKey]float64)}, nil
}

// Rows returns the number of rows.
func (b *Builder) Rows() int { return b.r }

// Cols returns the number of columns.
func (b *Builder) Cols() int { return b.c }

func (b *Builder) check(method string, i, j int, v float64) error {
	if i < 0 || i >= b.r || j < 0 || j >= b.c {
		return fmt.Errorf("Builder.%s(%d,%d): %w", method, i, j, ErrOutOfRange)
	}
	if isNonFinite(v) {
		return fmt.Errorf("Builder.%s(%d,%d): %w", method, i, j, ErrNaNInf)
	}

	return nil
}

// Set overwrites entry (i, j) with v.
func (b *Builder) Set(i, j int, v float64) error {
	if err := b.check("Set", i, j, v); err != nil {
		return err
	}
	b.entries[cellKey{i, j}] = v

	return nil
}

// Add accumulates v into entry (i, j).
func (b *Builder) Add(i, j int, v float64) error {
	if err := b.check("Add", i, j, v); err != nil {
		return err
	}
	b.entries[cellKey{i, j}] += v

	return nil
}

// At returns entry (i, j), zero when never assigned.
func (b *Builder) At(i, j int) (float64, error) {
	if err := b.check("At", i, j, 0); err != nil {
		return 0, err
	}

	return b.entries[cellKey{i, j}], nil
}

// NNZ returns the number of stored entries, explicit zeros included.
func (b *Builder) NNZ() int { return len(b.entries) }

// CSR is an immutable compressed-sparse-row matrix.
type CSR struct {
	r, c    int
	indptr  []int     // len r+1
	indices []int     // column index per stored value
	data    []float64 // stored values
}

// ToCSR converts the builder into CSR with columns sorted within each row.
// Explicit zeros are dropped. The builder stays usable afterwards.
// Complexity: O(nnz log nnz).
func (b *Builder) ToCSR() *CSR {
	keys := make([]cellKey, 0, len(b.entries))
	for k, v := range b.entries {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(x, y int) bool {
		if keys[x].r != keys[y].r {
			return keys[x].r < keys[y].r
		}
		return keys[x].c < keys[y].c
	})

	m := &CSR{
		r:       b.r,
		c:       b.c,
		indptr:  make([]int, b.r+1),
		indices: make([]int, len(keys)),
		data:    make([]float64, len(keys)),
	}
	for n, k := range keys {
		m.indptr[k.r+1]++
		m.indices[n] = k.c
		m.data[n] = b.entries[k]
	}
	for i := 0; i < b.r; i++ {
		m.indptr[i+1] += m.indptr[i]
	}

	return m
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.c }

// NNZ returns the number of stored values.
func (m *CSR) NNZ() int { return len(m.data) }

// At retrieves element (i, j) by binary search within row i.
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("CSR.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := lo + sort.SearchInts(m.indices[lo:hi], j)
	if k < hi && m.indices[k] == j {
		return m.data[k], nil
	}

	return 0, nil
}

// Row calls fn for every stored (column, value) pair of row i in column order.
func (m *CSR) Row(i int, fn func(j int, v float64)) {
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		fn(m.indices[k], m.data[k])
	}
}

// MatVec computes y = A·x.
// Complexity: O(nnz).
func (m *CSR) MatVec(x []float64) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opMatVec, ErrNilMatrix)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	m.mulVec(x, y)

	return y, nil
}

// MatTVec computes y = Aᵀ·x.
// Complexity: O(nnz).
func (m *CSR) MatTVec(x []float64) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opMatTVec, ErrNilMatrix)
	}
	if err := ValidateVecLen(x, m.r); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	y := make([]float64, m.c)
	m.mulTVec(x, y)

	return y, nil
}

// mulVec writes A·x into y without validation (hot loop for LSQR).
func (m *CSR) mulVec(x, y []float64) {
	var i, k int
	var acc float64
	for i = 0; i < m.r; i++ {
		acc = 0
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			acc += m.data[k] * x[m.indices[k]]
		}
		y[i] = acc
	}
}

// mulTVec writes Aᵀ·x into y without validation.
func (m *CSR) mulTVec(x, y []float64) {
	for j := range y {
		y[j] = 0
	}
	var i, k int
	for i = 0; i < m.r; i++ {
		if x[i] == 0 {
			continue
		}
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			y[m.indices[k]] += m.data[k] * x[i]
		}
	}
}

// ToDense expands the CSR into a Dense matrix.
// Complexity: O(r*c).
func (m *CSR) ToDense() (*Dense, error) {
	d, err := NewDense(m.r, m.c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.r; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			d.data[i*m.c+m.indices[k]] = m.data[k]
		}
	}

	return d, nil
}

// Scale returns alpha·A as a new CSR sharing the sparsity pattern.
func (m *CSR) Scale(alpha float64) *CSR {
	out := &CSR{
		r:       m.r,
		c:       m.c,
		indptr:  append([]int(nil), m.indptr...),
		indices: append([]int(nil), m.indices...),
		data:    make([]float64, len(m.data)),
	}
	for k, v := range m.data {
		out.data[k] = alpha * v
	}

	return out
}

// Bmat stacks a grid of CSR blocks into one CSR, like a block matrix literal.
// A nil block is an all-zero block; its shape is inferred from the other
// blocks of the same block row and block column.
//
// Implementation:
//   - Stage 1: infer per-block-row heights and per-block-column widths.
//   - Stage 2: validate every non-nil block against the inferred layout.
//   - Stage 3: copy entries with row/column offsets into a fresh Builder.
//
// Errors:
//   - ErrEmptyBlocks when a block row or column is entirely nil or blocks is empty.
//   - ErrDimensionMismatch when block shapes disagree.
//
// Complexity: O(total nnz · log).
func Bmat(blocks [][]*CSR) (*CSR, error) {
	if len(blocks) == 0 || len(blocks[0]) == 0 {
		return nil, matrixErrorf(opBmat, ErrEmptyBlocks)
	}
	nbr, nbc := len(blocks), len(blocks[0])
	heights := make([]int, nbr)
	widths := make([]int, nbc)

	var bi, bj int
	for bi = 0; bi < nbr; bi++ {
		if len(blocks[bi]) != nbc {
			return nil, matrixErrorf(opBmat, ErrDimensionMismatch)
		}
		for bj = 0; bj < nbc; bj++ {
			blk := blocks[bi][bj]
			if blk == nil {
				continue
			}
			if heights[bi] == 0 {
				heights[bi] = blk.r
			} else if heights[bi] != blk.r {
				return nil, matrixErrorf(opBmat, ErrDimensionMismatch)
			}
			if widths[bj] == 0 {
				widths[bj] = blk.c
			} else if widths[bj] != blk.c {
				return nil, matrixErrorf(opBmat, ErrDimensionMismatch)
			}
		}
	}

	rows, cols := 0, 0
	for _, h := range heights {
		if h == 0 {
			return nil, matrixErrorf(opBmat, ErrEmptyBlocks)
		}
		rows += h
	}
	for _, w := range widths {
		if w == 0 {
			return nil, matrixErrorf(opBmat, ErrEmptyBlocks)
		}
		cols += w
	}

	out, err := NewBuilder(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opBmat, err)
	}
	rowOff := 0
	for bi = 0; bi < nbr; bi++ {
		colOff := 0
		for bj = 0; bj < nbc; bj++ {
			if blk := blocks[bi][bj]; blk != nil {
				for i := 0; i < blk.r; i++ {
					for k := blk.indptr[i]; k < blk.indptr[i+1]; k++ {
						out.entries[cellKey{rowOff + i, colOff + blk.indices[k]}] = blk.data[k]
					}
				}
			}
			colOff += widths[bj]
		}
		rowOff += heights[bi]
	}

	return out.ToCSR(), nil
}
