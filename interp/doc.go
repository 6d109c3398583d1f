// Package interp provides scattered-data interpolation in the plane:
// a Delaunay triangulation (fogleman/delaunay, oriented and sliver-free),
// piecewise-linear interpolation
// of vector values over it with linear extrapolation beyond the hull, and
// 1-D table helpers (Interp1, GroupMeans).
//
// Extrapolation:
//
//   - A query outside every triangle uses the linear function of the nearest
//     triangle (triangle bounding boxes are indexed by an R-tree).
//   - WithRadius bounds the distance from the triangulation at which
//     extrapolation is still trusted; beyond it At returns ErrOutsideRadius.
//
// Errors:
//
//   - ErrDegenerateCloud for fewer than three distinct or all-collinear points.
//   - ErrLengthMismatch when source and value slices differ in length.
//   - ErrOutsideRadius, ErrNonFinite from queries.
package interp
