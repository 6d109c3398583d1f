// SPDX-License-Identifier: MIT

package quadgen

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/katalvlaran/quadmesh/matrix"
)

// run carries the per-invocation state: effective options, a logger tagged
// with the run id, and the warnings collected so far.
type run struct {
	opts     Options
	id       string
	log      *log.Logger
	warnings []Warning
}

func newRun(o Options) *run {
	id := uuid.NewString()
	return &run{opts: o, id: id, log: o.Logger.With("run", id)}
}

// forCell returns a child run logging with the cell tag.
func (r *run) forCell(c int) *run {
	return &run{opts: r.opts, id: r.id, log: r.log.With("cell", c)}
}

func (r *run) warn(w Warning) {
	r.warnings = append(r.warnings, w)
	r.log.Warn("generation warning", "stage", w.Stage, "kind", w.Kind.String(), "nodes", w.Nodes, "detail", w.Detail)
}

// noteSolve records a non-converged iterative solve as a warning.
func (r *run) noteSolve(stage string, res matrix.SolveResult) {
	if res.Converged {
		return
	}
	r.warn(Warning{
		Kind:   SolverNotConverged,
		Stage:  stage,
		Detail: fmt.Sprintf("LSQR stopped after %d iterations, residual %g", res.Iterations, res.Residual),
	})
}

// timed runs fn and logs its duration under the stage tag.
func (r *run) timed(stage string, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return stageErrorf(stage, err)
	}
	r.log.Debug("stage done", "stage", stage, "elapsed", time.Since(start).Round(time.Microsecond))

	return nil
}
