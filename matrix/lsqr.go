// SPDX-License-Identifier: MIT

// Package matrix: LSQR iterative least squares on CSR.
package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SolveResult carries the solution and the solver diagnostics.
// Converged is always true for the dense path.
type SolveResult struct {
	X          []float64 // solution, len == cols
	Residual   float64   // ‖A·x − b‖₂ (estimate for LSQR)
	Iterations int       // LSQR iterations; 0 for the dense path
	Converged  bool      // stopping test met before the iteration cap
	Dense      bool      // true when the dense SVD path was used
}

// LSQR solves min ‖A·x − b‖₂ with the Paige–Saunders bidiagonalisation.
// For consistent systems it converges to a solution of A·x = b; for
// rank-deficient systems started at x=0 it tends to the minimum-norm solution.
//
// Implementation:
//   - Stage 1: Golub–Kahan start: β₁u₁ = b, α₁v₁ = Aᵀu₁.
//   - Stage 2: per iteration, extend the bidiagonalisation, eliminate with a
//     plane rotation, update x and the search direction w.
//   - Stage 3: stop when ‖r‖/‖b‖ ≤ btol + atol·‖A‖‖x‖/‖b‖ (compatible system)
//     or ‖Aᵀr‖/(‖A‖‖r‖) ≤ atol (least-squares optimum).
//
// Non-convergence within the iteration cap is not an error: the last iterate
// is returned with Converged=false.
//
// Complexity: O(iterations · nnz).
func LSQR(a *CSR, b []float64, opts ...SolverOption) (SolveResult, error) {
	if a == nil {
		return SolveResult{}, matrixErrorf(opLSQR, ErrNilMatrix)
	}
	if err := ValidateVecLen(b, a.r); err != nil {
		return SolveResult{}, matrixErrorf(opLSQR, err)
	}
	if err := ValidateFinite(b); err != nil {
		return SolveResult{}, matrixErrorf(opLSQR, err)
	}
	o := gatherSolverOptions(opts...)
	maxIter := o.maxIter
	if maxIter == 0 {
		maxIter = 4 * a.c
	}

	m, n := a.r, a.c
	x := make([]float64, n)
	u := make([]float64, m)
	copy(u, b)
	v := make([]float64, n)
	w := make([]float64, n)
	tmpM := make([]float64, m)
	tmpN := make([]float64, n)

	beta := floats.Norm(u, 2)
	bnorm := beta
	if beta == 0 {
		return SolveResult{X: x, Converged: true}, nil
	}
	floats.Scale(1/beta, u)
	a.mulTVec(u, v)
	alpha := floats.Norm(v, 2)
	if alpha > 0 {
		floats.Scale(1/alpha, v)
	}
	copy(w, v)

	phibar, rhobar := beta, alpha
	anorm, rnorm := 0.0, beta
	if alpha*beta == 0 {
		return SolveResult{X: x, Residual: rnorm, Converged: true}, nil
	}

	var itn int
	converged := false
	for itn = 1; itn <= maxIter; itn++ {
		// u = A·v − α·u
		a.mulVec(v, tmpM)
		for i := range u {
			u[i] = tmpM[i] - alpha*u[i]
		}
		beta = floats.Norm(u, 2)
		if beta > 0 {
			floats.Scale(1/beta, u)
			anorm = math.Sqrt(anorm*anorm + alpha*alpha + beta*beta)
			// v = Aᵀ·u − β·v
			a.mulTVec(u, tmpN)
			for j := range v {
				v[j] = tmpN[j] - beta*v[j]
			}
			alpha = floats.Norm(v, 2)
			if alpha > 0 {
				floats.Scale(1/alpha, v)
			}
		}

		// Plane rotation eliminating the subdiagonal β.
		cs, sn, rho := symOrtho(rhobar, beta)
		theta := sn * alpha
		rhobar = -cs * alpha
		phi := cs * phibar
		phibar = sn * phibar
		tau := sn * phi

		t1 := phi / rho
		t2 := -theta / rho
		for j := range x {
			x[j] += t1 * w[j]
			w[j] = v[j] + t2*w[j]
		}

		rnorm = phibar
		arnorm := alpha * math.Abs(tau)
		xnorm := floats.Norm(x, 2)
		test1 := rnorm / bnorm
		test2 := arnorm / (anorm*rnorm + math.SmallestNonzeroFloat64)
		rtol := o.btol + o.atol*anorm*xnorm/bnorm
		if test1 <= rtol || test2 <= o.atol {
			converged = true
			break
		}
	}
	if itn > maxIter {
		itn = maxIter
	}
	if err := ValidateFinite(x); err != nil {
		return SolveResult{}, matrixErrorf(opLSQR, err)
	}

	return SolveResult{X: x, Residual: rnorm, Iterations: itn, Converged: converged}, nil
}

// symOrtho returns the stable Givens rotation (c, s, r) with r = ‖(a,b)‖.
func symOrtho(a, b float64) (c, s, r float64) {
	switch {
	case b == 0:
		if a == 0 {
			return 1, 0, 0
		}
		return math.Copysign(1, a), 0, math.Abs(a)
	case a == 0:
		return 0, math.Copysign(1, b), math.Abs(b)
	case math.Abs(b) > math.Abs(a):
		tau := a / b
		s = math.Copysign(1, b) / math.Sqrt(1+tau*tau)
		c = s * tau
		r = b / s
	default:
		tau := b / a
		c = math.Copysign(1, a) / math.Sqrt(1+tau*tau)
		s = c * tau
		r = a / c
	}

	return c, s, r
}
