// SPDX-License-Identifier: MIT
// Package: quadmesh/builder
//
// options.go: functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors validate and panic on meaningless inputs.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
)

// BuilderOption customizes a constructor by mutating builderConfig.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic constructors. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a seeded RNG (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithScale sets the physical length of one logical step. Panics unless s > 0 and finite.
func WithScale(s float64) BuilderOption {
	if !(s > 0) || math.IsInf(s, 0) {
		panic("builder: WithScale(s<=0)")
	}
	return func(c *builderConfig) { c.scale = s }
}

// WithOrigin sets the physical position of logical (0, 0).
func WithOrigin(p r2.Point) BuilderOption {
	return func(c *builderConfig) { c.origin = p }
}

// WithFixedProbability sets the chance that a RandomStar vertex gets a fixed
// value on an axis. Panics outside [0, 1].
func WithFixedProbability(p float64) BuilderOption {
	if !(p >= 0 && p <= 1) {
		panic("builder: WithFixedProbability(p∉[0,1])")
	}
	return func(c *builderConfig) { c.fixedProb = p }
}
