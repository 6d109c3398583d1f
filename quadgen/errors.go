// SPDX-License-Identifier: MIT

package quadgen

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the generator. Errors of the lower layers
// (mesh, logical, discretize, interp, matrix) are wrapped unchanged and stay
// matchable with errors.Is.
var (
	// ErrUnmatchedBoundaryNode indicates an intermediate boundary node that lies
	// on no generating edge within the generating-edge tolerance.
	ErrUnmatchedBoundaryNode = errors.New("quadgen: boundary node matches no generating edge")

	// ErrSlidingTopology indicates a sliding boundary node without exactly two
	// boundary neighbours and one interior neighbour.
	ErrSlidingTopology = errors.New("quadgen: sliding node needs 2 boundary and 1 interior neighbour")

	// ErrInsufficientGroups indicates too few distinct constant-i or constant-j
	// boundary runs (or fixed values) to pin the harmonic fields.
	ErrInsufficientGroups = errors.New("quadgen: too few logical boundary groups")

	// ErrScaleMismatch indicates a target grid whose logical range differs from
	// the generating polygon's at the requested scale.
	ErrScaleMismatch = errors.New("quadgen: logical scale mismatch")

	// ErrIncompatibleIJ indicates conflicting exact-scale values met while
	// tracing grid lines in RemapIJ.
	ErrIncompatibleIJ = errors.New("quadgen: incompatible logical coordinates")

	// ErrNonCartesianEdge indicates a boundary edge changing both i and j,
	// reported as an error only with WithStrictCartesian.
	ErrNonCartesianEdge = errors.New("quadgen: non-cartesian boundary edge")

	// ErrDegenerateGeometry indicates coincident nodes or zero logical spread
	// around an interior node during smoothing.
	ErrDegenerateGeometry = errors.New("quadgen: degenerate node geometry")

	// ErrMultipleCells indicates a multi-cell generating polygon given to
	// Generate; use GenerateCells.
	ErrMultipleCells = errors.New("quadgen: multi-cell polygon, use GenerateCells")

	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("quadgen: invalid configuration")

	// ErrUnknownConfigKey indicates a TOML key the configuration does not define.
	ErrUnknownConfigKey = errors.New("quadgen: unknown configuration key")
)

// Stage tags used in wrapped errors and log records.
const (
	stagePrepare      = "prepare"
	stageIntermediate = "intermediate"
	stageBezier       = "bezier"
	stageSmooth       = "smooth"
	stageHarmonic     = "harmonic"
	stageRemap        = "remap"
	stageRemapIJ      = "remap-ij"
	stageStitch       = "stitch"
)

// stageErrorf wraps err with the stage tag.
func stageErrorf(stage string, err error) error {
	return fmt.Errorf("quadgen %s: %w", stage, err)
}

// WarningKind classifies a recoverable condition met during generation.
type WarningKind int

const (
	// NonCartesianEdge is a boundary edge of the intermediate grid changing
	// both logical axes; it joins no tangential group.
	NonCartesianEdge WarningKind = iota
	// SolverNotConverged is an LSQR solve that hit its iteration cap.
	SolverNotConverged
	// LooseGenMatch is a generating node farther from its nearest grid node
	// than the merge tolerance in RemapIJ.
	LooseGenMatch
)

// String returns the kind name.
func (k WarningKind) String() string {
	switch k {
	case NonCartesianEdge:
		return "non-cartesian-edge"
	case SolverNotConverged:
		return "solver-not-converged"
	case LooseGenMatch:
		return "loose-gen-match"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a recoverable condition recorded on the Result.
type Warning struct {
	Kind   WarningKind
	Stage  string
	Nodes  []int // nodes involved, ids of the grid the stage worked on
	Detail string
}

// String formats the warning for logs and CLI output.
func (w Warning) String() string {
	return fmt.Sprintf("%s/%s %v: %s", w.Stage, w.Kind, w.Nodes, w.Detail)
}

// Post-condition errors of Result.Validate and CheckMonotone.
var (
	// ErrNonFiniteResult indicates a final node position that is NaN or ±Inf.
	ErrNonFiniteResult = errors.New("quadgen: non-finite node position")

	// ErrInvertedCell indicates a final cell with non-positive area.
	ErrInvertedCell = errors.New("quadgen: inverted or collapsed cell")

	// ErrNotMonotone indicates a field whose grouped means are not strictly
	// monotone in the logical coordinate.
	ErrNotMonotone = errors.New("quadgen: field not monotone")
)
