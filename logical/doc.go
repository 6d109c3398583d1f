// Package logical assigns logical (i, j) coordinates to the nodes of a
// generating grid at two scales.
//
// What:
//
//   - Exact scale (Node.IJ, Edge.DIJ): caller-fixed coordinates are copied
//     verbatim (Coalesce) and the gaps filled by arc-length interpolation
//     along maximal node strings (FillInterp).
//   - Nominal scale (Node.NomIJ, Edge.NomDIJ): integer coordinates with a
//     uniform physical spacing. Between consecutive fixed nodes of the
//     boundary cycle the step count is max(minSteps, arc length / spacing),
//     signed by the exact delta; rounding residue is spread over the steps
//     so the cycle closes (CoalesceNominal).
//   - EdgeDeltas derives per-edge deltas; ValidateClosure checks that the
//     deltas sum to zero around every cell and boundary cycle.
//
// Errors:
//
//   - ErrNoFixedLogical when a cycle or string has no fixed value on an axis.
//   - ErrNonClosingCycle when deltas around a cycle do not sum to zero.
//   - mesh.ErrNoCycle / mesh.ErrMultipleCycles from CoalesceNominal.
package logical
