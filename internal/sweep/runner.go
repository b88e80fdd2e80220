package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/vfi/internal/model"
	"github.com/banshee-data/vfi/internal/monitoring"
	"github.com/banshee-data/vfi/internal/vfi"
)

// Param names the model parameter a sweep varies.
type Param string

const (
	ParamAlpha Param = "alpha"
	ParamBeta  Param = "beta"
)

// ParseParam validates a parameter name.
func ParseParam(s string) (Param, error) {
	switch Param(s) {
	case ParamAlpha, ParamBeta:
		return Param(s), nil
	}
	return "", fmt.Errorf("unknown sweep parameter %q: expected alpha or beta", s)
}

// Apply returns a copy of base with the swept parameter set to v.
func (p Param) Apply(base model.Params, v float64) model.Params {
	switch p {
	case ParamAlpha:
		base.Alpha = v
	case ParamBeta:
		base.Beta = v
	}
	return base
}

// SweepStatus represents the current state of a sweep run.
type SweepStatus string

const (
	SweepStatusIdle     SweepStatus = "idle"
	SweepStatusRunning  SweepStatus = "running"
	SweepStatusComplete SweepStatus = "complete"
	SweepStatusError    SweepStatus = "error"
)

// ComboResult summarizes one solve of the sweep.
type ComboResult struct {
	Param          Param         `json:"param"`
	Value          float64       `json:"value"`
	Status         vfi.Status    `json:"status"`
	Iterations     int           `json:"iterations"`
	Distance       float64       `json:"distance"`
	SteadyState    float64       `json:"steady_state"`
	MaxValueError  float64       `json:"max_value_error"`
	MaxPolicyError float64       `json:"max_policy_error"`
	Elapsed        time.Duration `json:"elapsed"`
	Unconverged    int           `json:"unconverged"`
}

// SweepState is a snapshot of a Runner's progress.
type SweepState struct {
	Status          SweepStatus   `json:"status"`
	TotalCombos     int           `json:"total_combos"`
	CompletedCombos int           `json:"completed_combos"`
	Results         []ComboResult `json:"results"`
	Error           string        `json:"error,omitempty"`
}

// Options configure a sweep.
type Options struct {
	// Solver options applied to every combination. The InitialGuess field is
	// ignored because the grid may differ between combinations.
	Solver vfi.Options

	// WindowLo and WindowHi bound the grid points compared with the closed
	// form. Zero values select vfi.ComparisonWindow.
	WindowLo, WindowHi float64
}

// Runner executes sweeps and exposes their progress.
type Runner struct {
	mu    sync.Mutex
	state SweepState
}

// NewRunner returns an idle Runner.
func NewRunner() *Runner {
	return &Runner{state: SweepState{Status: SweepStatusIdle}}
}

// State returns a copy of the current progress.
func (r *Runner) State() SweepState {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.Results = append([]ComboResult(nil), r.state.Results...)
	return s
}

// Run solves base once per value of param and returns the summaries in input
// order. An invalid combination stops the sweep with an error.
func (r *Runner) Run(ctx context.Context, base model.Params, param Param, values []float64, opts Options) ([]ComboResult, error) {
	r.mu.Lock()
	if r.state.Status == SweepStatusRunning {
		r.mu.Unlock()
		return nil, fmt.Errorf("sweep already running")
	}
	r.state = SweepState{Status: SweepStatusRunning, TotalCombos: len(values)}
	r.mu.Unlock()

	results := make([]ComboResult, 0, len(values))
	for _, v := range values {
		res, err := runCombo(ctx, base, param, v, opts)
		if err != nil {
			r.fail(err)
			return results, err
		}
		monitoring.Logf("sweep %s=%v: %s after %d iterations, max value error %.6f",
			param, v, res.Status, res.Iterations, res.MaxValueError)
		results = append(results, res)

		r.mu.Lock()
		r.state.CompletedCombos++
		r.state.Results = append(r.state.Results, res)
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.state.Status = SweepStatusComplete
	r.mu.Unlock()
	return results, nil
}

func (r *Runner) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Status = SweepStatusError
	r.state.Error = err.Error()
}

func runCombo(ctx context.Context, base model.Params, param Param, v float64, opts Options) (ComboResult, error) {
	p := param.Apply(base, v)
	solverOpts := opts.Solver
	solverOpts.InitialGuess = nil

	res, err := vfi.Solve(ctx, p, solverOpts)
	if err != nil {
		return ComboResult{}, fmt.Errorf("%s=%v: %w", param, v, err)
	}

	ks := p.SteadyState()
	lo, hi := opts.WindowLo, opts.WindowHi
	if lo == 0 && hi == 0 {
		if lo, hi, err = vfi.ComparisonWindow(p); err != nil {
			return ComboResult{}, fmt.Errorf("%s=%v: %w", param, v, err)
		}
	}
	cmp, err := vfi.CompareAnalytic(p, res, lo, hi)
	if err != nil {
		return ComboResult{}, fmt.Errorf("%s=%v: %w", param, v, err)
	}

	return ComboResult{
		Param:          param,
		Value:          v,
		Status:         res.Status,
		Iterations:     res.Iterations,
		Distance:       res.Distance,
		SteadyState:    ks,
		MaxValueError:  cmp.MaxValueError,
		MaxPolicyError: cmp.MaxPolicyError,
		Elapsed:        res.Elapsed,
		Unconverged:    res.Unconverged,
	}, nil
}
