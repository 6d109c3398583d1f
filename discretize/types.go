package discretize

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite indicates a stencil coefficient that is NaN or ±Inf.
	ErrNonFinite = errors.New("discretize: non-finite coefficient")

	// ErrUnknownOperator indicates an Operator value outside the defined set.
	ErrUnknownOperator = errors.New("discretize: unknown operator")
)

// Operator selects the discretised differential operator.
type Operator int

const (
	// Laplacian is ∂²/∂x² + ∂²/∂y².
	Laplacian Operator = iota
	// Dx is ∂/∂x.
	Dx
	// Dy is ∂/∂y.
	Dy
)

// String returns the operator name.
func (op Operator) String() string {
	switch op {
	case Laplacian:
		return "laplacian"
	case Dx:
		return "dx"
	case Dy:
		return "dy"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Row is one sparse matrix row: Σ Coeffs[k]·value(Nodes[k]) ≈ op(value) at the
// row's node, with RHS moved to the right-hand side.
type Row struct {
	Nodes  []int
	Coeffs []float64
	RHS    float64
}
