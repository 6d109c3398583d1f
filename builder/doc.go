// Package builder constructs deterministic generating polygons for the quad
// generator: rectangles, skewed trapezoids, L-shapes, multi-cell strips and
// seeded random star polygons.
//
// The package follows a functional-options style:
//
//   - Constructor: func(*mesh.Grid, builderConfig) error, adding nodes with
//     fixed logical coordinates and the cells over them.
//   - BuilderOption: mutates builderConfig (scale, origin, RNG, probability
//     of fixing a star vertex).
//   - BuildPolygon: runs constructors in order on a fresh mesh.Grid.
//
// Physical positions are origin + scale·(i, j) unless a constructor documents
// a distortion (Trapezoid skew, RandomStar radii).
//
// Errors are sentinels (ErrBadSize, ErrNeedRandSource, ErrConstructFailed)
// wrapped with the constructor name; option constructors panic on
// meaningless values.
package builder
