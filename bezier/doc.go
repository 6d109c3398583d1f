// Package bezier fits cubic Bezier control polygons to the boundary edges of
// a generating polygon and samples the fitted boundary as a closed polyline.
//
// Fitting (Fit):
//
//   - At every node with two incident edges, the turning angle of the
//     physical boundary is compared with the turning angle implied by the
//     exact-scale logical deltas. Half of the discrepancy rotates each
//     edge's one-third tangent, so that a logical corner becomes a physical
//     corner and a logical straight run becomes smooth.
//   - P0 and P3 of every edge stay at the physical endpoints.
//
// Sampling (NewCurve):
//
//   - The boundary cycle is walked counter-clockwise and each edge
//     contributes samplesPerEdge points; Closest projects onto the polyline.
package bezier
