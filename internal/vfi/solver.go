package vfi

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/vfi/internal/grid"
	"github.com/banshee-data/vfi/internal/model"
	"github.com/banshee-data/vfi/internal/monitoring"
	"github.com/banshee-data/vfi/internal/optim"
	"github.com/banshee-data/vfi/internal/timeutil"
)

// Status is the terminal (or current) state of the convergence loop.
type Status string

const (
	StatusRunning        Status = "running"
	StatusConverged      Status = "converged"
	StatusMaxIterReached Status = "max_iter_reached"

	// StatusInterrupted and StatusError describe runs that ended without a
	// Result. Solve never returns them; callers recording runs use them.
	StatusInterrupted Status = "interrupted"
	StatusError       Status = "error"
)

// Observer receives the iteration index (starting at 1) and the sup-norm
// distance between the new and previous guess after every Bellman step.
type Observer func(iteration int, distance float64)

// LogObserver reports each iteration through monitoring.Logf.
func LogObserver(iteration int, distance float64) {
	monitoring.Logf("iteration %d, error %.8f", iteration, distance)
}

// Discard ignores iteration reports.
func Discard(int, float64) {}

// Options tune how the solver runs. The zero value is valid.
type Options struct {
	// Workers is the number of goroutines sharing grid points within one
	// Bellman step. Values below 1 mean 1.
	Workers int

	// Optimizer settings for the per-point maximization.
	Optimizer optim.Settings

	// InitialGuess seeds the iteration. Nil means all zeros.
	InitialGuess []float64

	// Observer is called once per iteration. Nil means LogObserver.
	Observer Observer

	// Clock times the run. Nil means timeutil.RealClock.
	Clock timeutil.Clock
}

// Result is the outcome of Solve.
type Result struct {
	Status     Status        `json:"status"`
	Iterations int           `json:"iterations"`
	Distance   float64       `json:"distance"`
	Capital    []float64     `json:"capital"`
	Value      []float64     `json:"value"`
	Policy     []float64     `json:"policy"`
	Trace      []float64     `json:"trace"`
	Elapsed    time.Duration `json:"elapsed"`

	// Unconverged counts per-point maximizations, summed over all
	// iterations, that stopped at the optimizer's evaluation cap.
	Unconverged int `json:"unconverged"`
}

// Solver applies the Bellman operator on a fixed grid.
type Solver struct {
	params model.Params
	grid   *grid.Grid
	opts   Options
	policy []float64

	// unconverged is the number of points in the most recent Bellman call
	// whose maximization hit the evaluation cap.
	unconverged atomic.Int64
}

// NewSolver validates p and builds the grid.
func NewSolver(p model.Params, opts Options) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(p.GridMin, p.GridMax, p.GridSize)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Observer == nil {
		opts.Observer = LogObserver
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	return &Solver{
		params: p,
		grid:   g,
		opts:   opts,
		policy: make([]float64, g.Len()),
	}, nil
}

// Params returns the parameters the solver was built with.
func (s *Solver) Params() model.Params { return s.params }

// Grid returns the solver's capital grid.
func (s *Solver) Grid() *grid.Grid { return s.grid }

// Policy returns a copy of the policy from the most recent Bellman call.
func (s *Solver) Policy() []float64 {
	out := make([]float64, len(s.policy))
	copy(out, s.policy)
	return out
}

// Bellman returns the image of v under the Bellman operator and overwrites the
// solver's policy with the maximizers found. v must have one entry per grid
// point and is not modified.
func (s *Solver) Bellman(ctx context.Context, v []float64) ([]float64, error) {
	n := s.grid.Len()
	if len(v) != n {
		return nil, fmt.Errorf("guess has %d values, grid has %d points", len(v), n)
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(s.grid.Raw(), v); err != nil {
		return nil, fmt.Errorf("fitting interpolant: %w", err)
	}

	out := make([]float64, n)
	s.unconverged.Store(0)
	chunk := (n + s.opts.Workers - 1) / s.opts.Workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				r, err := s.maximizeAt(pl, s.grid.At(i))
				if err != nil {
					return fmt.Errorf("grid point %d: %w", i, err)
				}
				if !r.Converged {
					s.unconverged.Add(1)
				}
				out[i] = r.F
				s.policy[i] = r.X
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Unconverged returns how many points of the most recent Bellman call
// stopped at the optimizer's evaluation cap.
func (s *Solver) Unconverged() int { return int(s.unconverged.Load()) }

// maximizeAt solves the one-dimensional problem at capital level k.
func (s *Solver) maximizeAt(pl interp.PiecewiseLinear, k float64) (optim.Result, error) {
	y := s.params.Output(k)
	beta := s.params.Beta
	objective := func(kp float64) float64 {
		return model.Utility(y-kp) + beta*pl.Predict(kp)
	}
	return optim.Maximize(objective, s.grid.Min(), y, s.opts.Optimizer)
}

// Solve iterates Bellman until convergence or the iteration cap. It returns
// an error only for invalid input or a cancelled context.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	n := s.grid.Len()
	v := make([]float64, n)
	if s.opts.InitialGuess != nil {
		if len(s.opts.InitialGuess) != n {
			return nil, fmt.Errorf("initial guess has %d values, grid has %d points", len(s.opts.InitialGuess), n)
		}
		copy(v, s.opts.InitialGuess)
	}

	clock := s.opts.Clock
	start := clock.Now()
	res := &Result{
		Status:  StatusRunning,
		Capital: s.grid.Points(),
		Trace:   make([]float64, 0, s.params.MaxIter),
	}

	for res.Status == StatusRunning {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("solve interrupted after %d iterations: %w", res.Iterations, err)
		}
		next, err := s.Bellman(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", res.Iterations+1, err)
		}

		d := SupNorm(next, v)
		v = next
		res.Iterations++
		res.Distance = d
		res.Trace = append(res.Trace, d)
		if u := s.Unconverged(); u > 0 {
			res.Unconverged += u
			monitoring.Logf("iteration %d: %d of %d points hit the optimizer evaluation cap", res.Iterations, u, n)
		}
		s.opts.Observer(res.Iterations, d)

		switch {
		case d < s.params.Tolerance:
			res.Status = StatusConverged
		case res.Iterations >= s.params.MaxIter:
			res.Status = StatusMaxIterReached
		}
	}

	res.Value = v
	res.Policy = s.Policy()
	res.Elapsed = clock.Since(start)
	return res, nil
}

// Solve builds a Solver for p and runs it.
func Solve(ctx context.Context, p model.Params, opts Options) (*Result, error) {
	s, err := NewSolver(p, opts)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx)
}

// SupNorm is the maximum absolute elementwise difference of a and b, which
// must have equal length.
func SupNorm(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}
