// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation
// tag via matrixErrorf) and tests check them via errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when requested shape is invalid (e.g., r<=0 or c<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix or vector was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrEmptyBlocks indicates Bmat was given no blocks, or a block row/column
	// whose size cannot be inferred because every entry in it is nil.
	ErrEmptyBlocks = errors.New("matrix: cannot infer block layout")

	// ErrFactorization indicates the dense SVD did not converge.
	ErrFactorization = errors.New("matrix: factorization failed")
)

// Operation name constants for unified error wrapping.
const (
	opMatVec       = "MatVec"
	opMatTVec      = "MatTVec"
	opBmat         = "Bmat"
	opLeastSquares = "LeastSquares"
	opLSQR         = "LSQR"
	opSolve        = "Solve"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
