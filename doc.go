// Package quadmesh generates structured, near-orthogonal quadrilateral grids
// inside polygons whose corners carry logical (i, j) coordinates.
//
// What is quadmesh?
//
//	A pure-Go mesh generator that brings together:
//		• mesh: planar node/edge/cell arena with boundary cycles and merging
//		• logical: exact and nominal logical coordinates of the polygon
//		• bezier: curved boundary fitted to the logical corner angles
//		• discretize: Laplacian and gradient stencils on unstructured grids
//		• matrix: sparse assembly, SVD least squares, LSQR
//		• interp: Delaunay linear interpolation and 1-D tables
//		• quadgen: the pipeline (intermediate grid, smoothing, harmonic
//		  ψ/φ fields, remap) with options and TOML configuration
//		• builder: deterministic test polygons
//
// Pipeline:
//
//	polygon ─► logical coords ─► Bezier boundary ─► intermediate grid
//	        ─► smoothing ─► ψ, φ fields ─► remap ─► final grid
//
// The quadgen command (cmd/quadgen) reads a polygon from TOML and writes the
// generated grid back as TOML.
//
//	go install github.com/katalvlaran/quadmesh/cmd/quadgen@latest
package quadmesh
