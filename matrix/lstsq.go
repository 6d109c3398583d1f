// SPDX-License-Identifier: MIT

// Package matrix: dense least squares through a thin SVD.
//
// The dense path returns the minimum-norm least-squares solution, the same
// point LSQR converges to from x = 0, so switching kernels at DenseLimit does
// not move the answer for rank-deficient systems.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares minimises ‖A·x − b‖₂ for a dense or sparse A and returns the
// minimum-norm minimiser.
//
// Implementation:
//   - Stage 1: Validate A (non-nil, non-empty) and b (len == rows, finite);
//     copy A into a gonum dense matrix.
//   - Stage 2: Thin SVD A = U·Σ·Vᵀ. Singular values ≤ rankTol·σ₀ are treated
//     as zero, which fixes the numerical rank r.
//   - Stage 3: x = V_r·Σ_r⁻¹·U_rᵀ·b (x = 0 when r = 0).
//
// Returns:
//   - x: solution of length cols.
//   - residual: ‖A·x − b‖₂.
//
// Errors:
//   - ErrNilMatrix, ErrBadShape, ErrDimensionMismatch.
//   - ErrNaNInf (non-finite input or solution).
//   - ErrFactorization when the SVD does not converge.
//
// Complexity:
//   - Time O(rows·cols·min(rows, cols)), Space O(rows·cols).
func LeastSquares(a Matrix, b []float64, opts ...SolverOption) ([]float64, float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	m, n := a.Rows(), a.Cols()
	if m <= 0 || n <= 0 {
		return nil, 0, matrixErrorf(opLeastSquares, ErrBadShape)
	}
	if err := ValidateVecLen(b, m); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	if err := ValidateFinite(b); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	o := gatherSolverOptions(opts...)

	w, err := toGonum(a)
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	rhs := mat.NewVecDense(m, append([]float64(nil), b...))

	x := make([]float64, n)
	var svd mat.SVD
	if !svd.Factorize(w, mat.SVDThin) {
		return nil, 0, matrixErrorf(opLeastSquares, ErrFactorization)
	}
	if rank := svd.Rank(o.rankTol); rank > 0 {
		xv := mat.NewVecDense(n, x)
		svd.SolveVecTo(xv, rhs, rank)
	}
	if err = ValidateFinite(x); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}

	var r mat.VecDense
	r.MulVec(w, mat.NewVecDense(n, x))
	r.SubVec(&r, rhs)

	return x, mat.Norm(&r, 2), nil
}

// toGonum copies src into a gonum dense matrix.
func toGonum(src Matrix) (*mat.Dense, error) {
	dst := mat.NewDense(src.Rows(), src.Cols(), nil)
	switch s := src.(type) {
	case *Dense:
		for i := 0; i < s.r; i++ {
			dst.SetRow(i, s.data[i*s.c:(i+1)*s.c])
		}
	case *CSR:
		for i := 0; i < s.r; i++ {
			for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
				dst.Set(i, s.indices[k], s.data[k])
			}
		}
	default:
		for i := 0; i < src.Rows(); i++ {
			for j := 0; j < src.Cols(); j++ {
				v, err := src.At(i, j)
				if err != nil {
					return nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
				}
				dst.Set(i, j, v)
			}
		}
	}

	return dst, nil
}
