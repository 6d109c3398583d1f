// Package matrix provides the linear-algebra kernels used by the mesh
// generator: a small dense matrix, an incrementally assembled sparse matrix
// (dictionary-of-keys builder converted once to CSR), block stacking, and two
// least-squares solvers.
//
// What:
//
//   - Dense: row-major float64 matrix with bounds-checked At/Set.
//   - Builder: mutable DOK assembly, element-by-element Set/Add.
//   - CSR: immutable compressed rows with MatVec / MatTVec.
//   - Bmat: stacks CSR blocks (nil = zero block) into one CSR.
//   - LeastSquares: minimum-norm solve via gonum's SVD (small systems).
//   - LSQR: Paige–Saunders iteration on CSR (large systems).
//   - Solve: picks one of the two by column count.
//
// Errors:
//
//   - ErrBadShape, ErrOutOfRange, ErrDimensionMismatch: shape/index violations.
//   - ErrNaNInf: non-finite entries on ingestion or in a solution.
//   - ErrNilMatrix: nil receiver or argument.
//
// Non-convergence of LSQR is not an error; it is reported through
// SolveResult.Converged so callers decide whether to continue.
package matrix
