// Package mesh is the planar mesh arena consumed and produced by the quad
// generator.
//
// What:
//
//   - Grid stores fixed-schema Node, Edge and Cell records indexed by dense
//     integer ids. Deletion sets a tombstone (Deleted) instead of removing the
//     record, so ids stay stable until Renumber compacts the arena.
//   - Cells are stored counter-clockwise; each Edge records the cell on its
//     left and right (Edge.Cells), which orients boundary cycles and cell
//     traversals.
//   - Queries: boundary cycles, maximal linear node strings, angle-sorted
//     neighbours, nearest node (R-tree backed NodeIndex).
//   - Builders: AddRectilinear patches, Merge of two arenas on coincident
//     coordinates.
//   - PlanarGraph is the read-only collaborator interface; FromPlanarGraph
//     makes the defensive copy the generator works on.
//
// Concurrency:
//
//   - A Grid is owned by one pipeline stage at a time and is not safe for
//     concurrent mutation. Read-only queries may run concurrently.
//
// Errors:
//
//   - ErrNodeNotFound, ErrEdgeNotFound, ErrCellNotFound: invalid or deleted ids.
//   - ErrLoopNotAllowed, ErrDuplicateEdge, ErrEdgeOccupied, ErrBadCell: construction violations.
//   - ErrNoCycle, ErrMultipleCycles, ErrPinchedBoundary: boundary topology.
//   - ErrBadPatch: rectilinear patch with fewer than two nodes per axis.
package mesh
