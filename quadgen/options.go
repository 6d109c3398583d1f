// SPDX-License-Identifier: MIT

// Package quadgen: functional configuration of the generator.
// This file defines:
//   - documented defaults (constants),
//   - Option constructors with strong validation (panic on nonsensical values),
//   - DefaultOptions and gatherOptions.
package quadgen

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/quadmesh/matrix"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultAnisotropic builds a separate exact-scale final grid.
	DefaultAnisotropic = true

	// DefaultNominalResolution is the physical cell size of the nominal grid.
	DefaultNominalResolution = 4.0

	// DefaultMinLogicalSteps is the floor on nominal steps per boundary segment.
	DefaultMinLogicalSteps = 2

	// DefaultSmoothingIterations is the number of sliding-boundary relaxations.
	DefaultSmoothingIterations = 3

	// DefaultBezierSamples is the number of curve samples per boundary edge.
	DefaultBezierSamples = 10

	// DefaultGenEdgeTolerance is the logical-space distance within which a
	// boundary node is matched to a generating edge.
	DefaultGenEdgeTolerance = 0.1

	// DefaultClosureTolerance is the per-axis tolerance of delta closure.
	DefaultClosureTolerance = 1e-6

	// DefaultMergeTolerance is the physical distance under which nodes of
	// neighbouring cells are stitched.
	DefaultMergeTolerance = 1e-6

	// DefaultExtrapolationRadius bounds (ψ,φ) extrapolation; 0 = unbounded.
	DefaultExtrapolationRadius = 0.0

	// DefaultExactConstraints eliminates harmonic pins and tangential groups
	// from the unknowns instead of fitting them as least-squares rows.
	DefaultExactConstraints = true
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicResolutionInvalid = "quadgen: WithNominalResolution: resolution must be finite and > 0"
	panicMinStepsInvalid   = "quadgen: WithMinLogicalSteps: steps must be >= 1"
	panicIterationsInvalid = "quadgen: WithSmoothingIterations: iterations must be >= 0"
	panicSamplesInvalid    = "quadgen: WithBezierSamples: samples must be >= 1"
	panicToleranceInvalid  = "quadgen: tolerance must be finite and >= 0"
	panicLoggerNil         = "quadgen: WithLogger: logger must not be nil"
)

// Options is the effective generator configuration.
type Options struct {
	Anisotropic         bool
	NominalResolution   float64
	MinLogicalSteps     int
	SmoothingIterations int
	BezierSamples       int
	GenEdgeTolerance    float64
	ClosureTolerance    float64
	MergeTolerance      float64
	ExtrapolationRadius float64
	StrictCartesian     bool
	ExactConstraints    bool
	Solver              []matrix.SolverOption
	Logger              *log.Logger
}

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// DefaultOptions returns the documented defaults with a discarding logger.
func DefaultOptions() Options {
	return Options{
		Anisotropic:         DefaultAnisotropic,
		NominalResolution:   DefaultNominalResolution,
		MinLogicalSteps:     DefaultMinLogicalSteps,
		SmoothingIterations: DefaultSmoothingIterations,
		BezierSamples:       DefaultBezierSamples,
		GenEdgeTolerance:    DefaultGenEdgeTolerance,
		ClosureTolerance:    DefaultClosureTolerance,
		MergeTolerance:      DefaultMergeTolerance,
		ExtrapolationRadius: DefaultExtrapolationRadius,
		ExactConstraints:    DefaultExactConstraints,
		Logger:              log.New(io.Discard),
	}
}

func badTolerance(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) || v < 0 }

// WithAnisotropic selects between a separate exact-scale final grid (true)
// and the smoothed nominal grid with remapped logical coordinates (false).
func WithAnisotropic(on bool) Option {
	return func(o *Options) { o.Anisotropic = on }
}

// WithNominalResolution sets the physical cell size of the nominal grid.
func WithNominalResolution(res float64) Option {
	if math.IsNaN(res) || math.IsInf(res, 0) || res <= 0 {
		panic(panicResolutionInvalid)
	}

	return func(o *Options) { o.NominalResolution = res }
}

// WithMinLogicalSteps sets the floor on nominal steps per boundary segment.
func WithMinLogicalSteps(steps int) Option {
	if steps < 1 {
		panic(panicMinStepsInvalid)
	}

	return func(o *Options) { o.MinLogicalSteps = steps }
}

// WithSmoothingIterations sets the number of smoothing passes (0 disables).
func WithSmoothingIterations(n int) Option {
	if n < 0 {
		panic(panicIterationsInvalid)
	}

	return func(o *Options) { o.SmoothingIterations = n }
}

// WithBezierSamples sets the boundary-curve samples per generating edge.
func WithBezierSamples(n int) Option {
	if n < 1 {
		panic(panicSamplesInvalid)
	}

	return func(o *Options) { o.BezierSamples = n }
}

// WithGenEdgeTolerance sets the logical distance for generating-edge matching.
func WithGenEdgeTolerance(tol float64) Option {
	if badTolerance(tol) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.GenEdgeTolerance = tol }
}

// WithClosureTolerance sets the per-axis tolerance of delta closure checks.
func WithClosureTolerance(tol float64) Option {
	if badTolerance(tol) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.ClosureTolerance = tol }
}

// WithMergeTolerance sets the stitching distance of GenerateCells.
func WithMergeTolerance(tol float64) Option {
	if badTolerance(tol) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.MergeTolerance = tol }
}

// WithExtrapolationRadius bounds the (ψ,φ) → xy extrapolation distance.
// 0 leaves it unbounded.
func WithExtrapolationRadius(r float64) Option {
	if badTolerance(r) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.ExtrapolationRadius = r }
}

// WithStrictCartesian turns non-cartesian boundary edges into ErrNonCartesianEdge.
func WithStrictCartesian(on bool) Option {
	return func(o *Options) { o.StrictCartesian = on }
}

// WithExactConstraints selects how the harmonic solve honours its boundary
// conditions: eliminated exactly (true) or fitted as ordinary rows of the
// stacked system (false).
func WithExactConstraints(on bool) Option {
	return func(o *Options) { o.ExactConstraints = on }
}

// WithSolver appends least-squares solver options used by every solve.
func WithSolver(opts ...matrix.SolverOption) Option {
	return func(o *Options) { o.Solver = append(o.Solver, opts...) }
}

// WithLogger routes generator logs to l.
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.Logger = l }
}

// gatherOptions applies user options over the defaults; last writer wins.
func gatherOptions(user ...Option) Options {
	o := DefaultOptions()
	for _, set := range user {
		set(&o)
	}

	return o
}
