package interp

import "errors"

var (
	// ErrDegenerateCloud indicates a point set that spans no triangle.
	ErrDegenerateCloud = errors.New("interp: degenerate point cloud")

	// ErrLengthMismatch indicates source points and values of different lengths.
	ErrLengthMismatch = errors.New("interp: length mismatch")

	// ErrOutsideRadius indicates a query farther from the cloud than the extrapolation radius.
	ErrOutsideRadius = errors.New("interp: query outside extrapolation radius")

	// ErrNonFinite indicates a non-finite query or result.
	ErrNonFinite = errors.New("interp: non-finite value")
)
