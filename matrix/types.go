// SPDX-License-Identifier: MIT

// Package matrix: the Matrix interface shared by Dense and CSR.
package matrix

// Matrix represents a two-dimensional float64 array.
//
// Complexity notes: Rows/Cols are O(1); At is O(1) for Dense and
// O(log nnz(row)) for CSR.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)
}
