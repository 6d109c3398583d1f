// SPDX-License-Identifier: MIT
// Package: quadmesh/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers use errors.Is.
//   • Constructors attach context with %w; they never panic at runtime.
//   • Option constructors (WithX) panic on meaningless values.

package builder

import "errors"

// ErrBadSize indicates a size parameter below the constructor's minimum.
var ErrBadSize = errors.New("builder: invalid size")

// ErrNeedRandSource indicates a stochastic constructor ran without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor or a mesh construction failure.
var ErrConstructFailed = errors.New("builder: construction failed")
