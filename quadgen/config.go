// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/quadmesh/matrix"
)

// Config is the TOML form of Options. Absent keys keep their defaults.
//
//	anisotropic = false
//	nominal_resolution = 1.0
//	min_logical_steps = 2
//
//	[solver]
//	dense_limit = 800
type Config struct {
	Anisotropic         *bool        `toml:"anisotropic"`
	NominalResolution   *float64     `toml:"nominal_resolution"`
	MinLogicalSteps     *int         `toml:"min_logical_steps"`
	SmoothingIterations *int         `toml:"smoothing_iterations"`
	BezierSamples       *int         `toml:"bezier_samples"`
	GenEdgeTolerance    *float64     `toml:"gen_edge_tolerance"`
	ClosureTolerance    *float64     `toml:"closure_tolerance"`
	MergeTolerance      *float64     `toml:"merge_tolerance"`
	ExtrapolationRadius *float64     `toml:"extrapolation_radius"`
	StrictCartesian     *bool        `toml:"strict_cartesian"`
	ExactConstraints    *bool        `toml:"exact_constraints"`
	Solver              SolverConfig `toml:"solver"`
}

// SolverConfig is the [solver] table.
type SolverConfig struct {
	DenseLimit *int     `toml:"dense_limit"`
	RankTol    *float64 `toml:"rank_tol"`
	ATol       *float64 `toml:"atol"`
	BTol       *float64 `toml:"btol"`
	MaxIter    *int     `toml:"max_iter"`
}

// LoadConfig reads and parses a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig %s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes and validates a TOML configuration.
//
// Errors:
//   - the TOML decoder error for malformed input.
//   - ErrUnknownConfigKey for keys outside the schema.
//   - ErrInvalidConfig for out-of-range values.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("ParseConfig: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("ParseConfig: %s: %w", strings.Join(keys, ", "), ErrUnknownConfigKey)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every present value against the Option constructors' ranges.
func (c *Config) Validate() error {
	bad := func(key string, v any) error {
		return fmt.Errorf("config %s = %v: %w", key, v, ErrInvalidConfig)
	}
	positive := func(v *float64) bool { return v == nil || (!math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 0) }
	tolerance := func(v *float64) bool { return v == nil || !badTolerance(*v) }

	switch {
	case !positive(c.NominalResolution):
		return bad("nominal_resolution", *c.NominalResolution)
	case c.MinLogicalSteps != nil && *c.MinLogicalSteps < 1:
		return bad("min_logical_steps", *c.MinLogicalSteps)
	case c.SmoothingIterations != nil && *c.SmoothingIterations < 0:
		return bad("smoothing_iterations", *c.SmoothingIterations)
	case c.BezierSamples != nil && *c.BezierSamples < 1:
		return bad("bezier_samples", *c.BezierSamples)
	case !tolerance(c.GenEdgeTolerance):
		return bad("gen_edge_tolerance", *c.GenEdgeTolerance)
	case !tolerance(c.ClosureTolerance):
		return bad("closure_tolerance", *c.ClosureTolerance)
	case !tolerance(c.MergeTolerance):
		return bad("merge_tolerance", *c.MergeTolerance)
	case !tolerance(c.ExtrapolationRadius):
		return bad("extrapolation_radius", *c.ExtrapolationRadius)
	case c.Solver.DenseLimit != nil && *c.Solver.DenseLimit < 0:
		return bad("solver.dense_limit", *c.Solver.DenseLimit)
	case !tolerance(c.Solver.RankTol):
		return bad("solver.rank_tol", *c.Solver.RankTol)
	case !tolerance(c.Solver.ATol):
		return bad("solver.atol", *c.Solver.ATol)
	case !tolerance(c.Solver.BTol):
		return bad("solver.btol", *c.Solver.BTol)
	case c.Solver.MaxIter != nil && *c.Solver.MaxIter < 0:
		return bad("solver.max_iter", *c.Solver.MaxIter)
	}

	return nil
}

// Options converts the present values into Option setters. Call Validate
// first for configurations not obtained from ParseConfig.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Anisotropic != nil {
		opts = append(opts, WithAnisotropic(*c.Anisotropic))
	}
	if c.NominalResolution != nil {
		opts = append(opts, WithNominalResolution(*c.NominalResolution))
	}
	if c.MinLogicalSteps != nil {
		opts = append(opts, WithMinLogicalSteps(*c.MinLogicalSteps))
	}
	if c.SmoothingIterations != nil {
		opts = append(opts, WithSmoothingIterations(*c.SmoothingIterations))
	}
	if c.BezierSamples != nil {
		opts = append(opts, WithBezierSamples(*c.BezierSamples))
	}
	if c.GenEdgeTolerance != nil {
		opts = append(opts, WithGenEdgeTolerance(*c.GenEdgeTolerance))
	}
	if c.ClosureTolerance != nil {
		opts = append(opts, WithClosureTolerance(*c.ClosureTolerance))
	}
	if c.MergeTolerance != nil {
		opts = append(opts, WithMergeTolerance(*c.MergeTolerance))
	}
	if c.ExtrapolationRadius != nil {
		opts = append(opts, WithExtrapolationRadius(*c.ExtrapolationRadius))
	}
	if c.StrictCartesian != nil {
		opts = append(opts, WithStrictCartesian(*c.StrictCartesian))
	}
	if c.ExactConstraints != nil {
		opts = append(opts, WithExactConstraints(*c.ExactConstraints))
	}

	var solver []matrix.SolverOption
	if s := c.Solver; s.DenseLimit != nil {
		solver = append(solver, matrix.WithDenseLimit(*s.DenseLimit))
	}
	if s := c.Solver; s.RankTol != nil {
		solver = append(solver, matrix.WithRankTol(*s.RankTol))
	}
	if s := c.Solver; s.ATol != nil || s.BTol != nil {
		atol, btol := matrix.DefaultATol, matrix.DefaultBTol
		if s.ATol != nil {
			atol = *s.ATol
		}
		if s.BTol != nil {
			btol = *s.BTol
		}
		solver = append(solver, matrix.WithTolerances(atol, btol))
	}
	if s := c.Solver; s.MaxIter != nil {
		solver = append(solver, matrix.WithMaxIter(*s.MaxIter))
	}
	if len(solver) > 0 {
		opts = append(opts, WithSolver(solver...))
	}

	return opts
}

// ConfigOf returns the Config describing o (solver options are not
// introspectable and are left out).
func ConfigOf(o Options) Config {
	return Config{
		Anisotropic:         &o.Anisotropic,
		NominalResolution:   &o.NominalResolution,
		MinLogicalSteps:     &o.MinLogicalSteps,
		SmoothingIterations: &o.SmoothingIterations,
		BezierSamples:       &o.BezierSamples,
		GenEdgeTolerance:    &o.GenEdgeTolerance,
		ClosureTolerance:    &o.ClosureTolerance,
		MergeTolerance:      &o.MergeTolerance,
		ExtrapolationRadius: &o.ExtrapolationRadius,
		StrictCartesian:     &o.StrictCartesian,
		ExactConstraints:    &o.ExactConstraints,
	}
}
