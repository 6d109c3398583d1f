// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the least-squares solvers.
// This file defines:
//   - documented defaults (constants),
//   - SolverOption constructors with strong validation (panic on nonsensical values),
//   - gatherSolverOptions helper that applies them in order.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultDenseLimit is the largest column count solved by the dense SVD.
	// Above it Solve switches to LSQR. 600 columns keep the dense copy of a
	// 4N×2N harmonic system under ~6 MB.
	DefaultDenseLimit = 600

	// DefaultRankTol is the relative threshold below which a singular value
	// (against the largest) is treated as zero by the dense path.
	DefaultRankTol = 1e-10

	// DefaultATol and DefaultBTol are the LSQR stopping tolerances on the
	// normal-equation and the residual estimates (Paige & Saunders 1982).
	DefaultATol = 1e-12
	DefaultBTol = 1e-12

	// DefaultMaxIter caps LSQR iterations; 0 means 4·cols.
	DefaultMaxIter = 0
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicDenseLimitInvalid = "matrix: WithDenseLimit: limit must be >= 0"
	panicTolInvalid        = "matrix: tolerance must be finite, non-negative"
	panicMaxIterInvalid    = "matrix: WithMaxIter: iterations must be >= 0"
)

// SolverOptions stores the effective configuration after applying SolverOption setters.
type SolverOptions struct {
	denseLimit int
	rankTol    float64
	atol       float64
	btol       float64
	maxIter    int
}

// SolverOption mutates SolverOptions. Safe to apply repeatedly.
type SolverOption func(*SolverOptions)

// WithDenseLimit sets the largest column count handled by the dense SVD.
// Use 0 to force LSQR for every system.
func WithDenseLimit(limit int) SolverOption {
	if limit < 0 {
		panic(panicDenseLimitInvalid)
	}

	return func(o *SolverOptions) { o.denseLimit = limit }
}

// WithRankTol sets the relative singular-value cutoff of the dense SVD.
func WithRankTol(tol float64) SolverOption {
	if isNonFinite(tol) || tol < 0 {
		panic(panicTolInvalid)
	}

	return func(o *SolverOptions) { o.rankTol = tol }
}

// WithTolerances sets the LSQR stopping tolerances atol and btol.
func WithTolerances(atol, btol float64) SolverOption {
	if isNonFinite(atol) || atol < 0 || isNonFinite(btol) || btol < 0 {
		panic(panicTolInvalid)
	}

	return func(o *SolverOptions) {
		o.atol = atol
		o.btol = btol
	}
}

// WithMaxIter caps the number of LSQR iterations (0 = 4·cols).
func WithMaxIter(n int) SolverOption {
	if n < 0 {
		panic(panicMaxIterInvalid)
	}

	return func(o *SolverOptions) { o.maxIter = n }
}

// gatherSolverOptions applies user options over the defaults; last writer wins.
func gatherSolverOptions(user ...SolverOption) SolverOptions {
	o := SolverOptions{
		denseLimit: DefaultDenseLimit,
		rankTol:    DefaultRankTol,
		atol:       DefaultATol,
		btol:       DefaultBTol,
		maxIter:    DefaultMaxIter,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
