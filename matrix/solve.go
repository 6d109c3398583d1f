// SPDX-License-Identifier: MIT

// Package matrix: Solve dispatches between the dense SVD path and LSQR.
package matrix

// Solve minimises ‖A·x − b‖₂. Systems with at most DenseLimit columns are
// solved directly through an SVD of a dense copy; larger ones by LSQR. Both
// kernels return the minimum-norm minimiser (LSQR up to its tolerance), so
// the choice does not change the answer for rank-deficient systems.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf from the chosen kernel.
func Solve(a *CSR, b []float64, opts ...SolverOption) (SolveResult, error) {
	if a == nil {
		return SolveResult{}, matrixErrorf(opSolve, ErrNilMatrix)
	}
	o := gatherSolverOptions(opts...)
	if a.c <= o.denseLimit {
		x, res, err := LeastSquares(a, b, opts...)
		if err != nil {
			return SolveResult{}, matrixErrorf(opSolve, err)
		}
		return SolveResult{X: x, Residual: res, Converged: true, Dense: true}, nil
	}

	r, err := LSQR(a, b, opts...)
	if err != nil {
		return SolveResult{}, matrixErrorf(opSolve, err)
	}

	return r, nil
}
