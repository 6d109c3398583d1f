// SPDX-License-Identifier: MIT
// Package: quadmesh/builder
//
// config.go: resolved builder configuration and its defaults.

package builder

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// builderConfig carries the resolved options passed to every Constructor.
type builderConfig struct {
	rng       *rand.Rand // nil unless WithSeed/WithRand
	scale     float64    // physical length per logical step
	origin    r2.Point   // physical position of logical (0,0)
	fixedProb float64    // RandomStar: per-axis probability of a fixed value
}

const (
	defaultScale     = 1.0
	defaultFixedProb = 0.5
)

// newBuilderConfig applies opts over the defaults; last writer wins.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		scale:     defaultScale,
		fixedProb: defaultFixedProb,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// at maps a logical position to physical space.
func (c builderConfig) at(i, j float64) r2.Point {
	return r2.Point{X: c.origin.X + c.scale*i, Y: c.origin.Y + c.scale*j}
}
