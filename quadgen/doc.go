// SPDX-License-Identifier: MIT

// Package quadgen generates near-orthogonal quadrilateral grids inside a
// generating polygon whose corners carry logical (i, j) coordinates.
//
// Pipeline (Generate):
//
//  1. Prepare: exact logical coordinates and deltas (Node.IJ, Edge.DIJ) and
//     a nominal uniform-resolution frame (Node.NomIJ, Edge.NomDIJ).
//  2. Bezier fit of the boundary so logical corners become physical corners.
//  3. Intermediate grid: a rectilinear patch over the nominal logical
//     polygon, mapped into the domain by linear extrapolation.
//  4. Smoothing with boundary nodes sliding along the Bezier curve.
//  5. Harmonic fields ψ (along i) and φ (along j) from a coupled
//     least-squares system.
//  6. Remap of the final grid through the inverted (ψ, φ) → xy relation.
//
// Multi-cell polygons go through GenerateCells, which runs the pipeline per
// cell and stitches the results. The stage functions (IntermediateGrid,
// LogicalGrid, Smooth, SolveHarmonic, Remap, RemapIJ) are exported for
// callers that drive the stages themselves.
//
// Errors:
//
//   - Input inconsistency: logical.ErrNonClosingCycle, logical.ErrNoFixedLogical,
//     ErrUnmatchedBoundaryNode, ErrScaleMismatch, ErrIncompatibleIJ.
//   - Topology: mesh.ErrNoCycle, mesh.ErrMultipleCycles, mesh.ErrPinchedBoundary,
//     ErrSlidingTopology, ErrInsufficientGroups, ErrMultipleCells.
//   - Numerical: discretize.ErrNonFinite, interp.ErrDegenerateCloud,
//     interp.ErrOutsideRadius, interp.ErrNonFinite, ErrDegenerateGeometry.
//
// Recoverable conditions (non-cartesian boundary edges, LSQR stopping at its
// iteration cap) are returned as Result.Warnings and logged at warn level.
// WithStrictCartesian makes the former fatal.
//
// Configuration is by functional options or a TOML document (ParseConfig,
// LoadConfig, Config.Options). Logging goes to a charmbracelet/log Logger
// (discarded by default) tagged with the run id and cell.
package quadgen
