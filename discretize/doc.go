// Package discretize builds finite-volume node stencils for the Laplacian and
// the two first derivatives on an unstructured mesh, and assembles them into
// sparse operator matrices with Dirichlet and zero-tangential-gradient rows.
//
// Stencil:
//
//   - The neighbours of n0 are taken in counter-clockwise angular order. An
//     interior node closes a ring of P triangle fans (n0, N[m], N[m+1]).
//   - A boundary node's ring is rotated so that it starts and ends at its two
//     boundary neighbours, leaving P−1 fans that cover the domain side only.
//   - Coefficients are the linear finite-element weights of each fan: the
//     Laplacian row sums to zero, and the Dx/Dy rows reproduce the exact
//     derivative of any linear field.
//
// Errors:
//
//   - ErrNonFinite when a coefficient is NaN or ±Inf (zero-area fans from
//     duplicate or collinear nodes, isolated nodes).
//   - ErrUnknownOperator for an Operator outside Laplacian, Dx, Dy.
//
// The package holds no mutable state; a Discretization may be shared by
// concurrent readers of an unchanging Grid.
package discretize
