// Package model holds the primitives of the deterministic neoclassical growth
// model with log utility, Cobb-Douglas production and full depreciation.
package model

import (
	"errors"
	"fmt"
	"math"
)

// Penalty is returned by Utility for infeasible (non-positive) consumption.
// It is finite so that an optimizer comparing objective values is steered away
// from the infeasible region instead of failing on ln(c <= 0).
const Penalty = -1e10

// ErrInvalidParams is wrapped by every Params validation failure.
var ErrInvalidParams = errors.New("model: invalid parameters")

// Params are the model and solver parameters. They are passed explicitly into
// the solver; nothing in this repository reads them from package state.
type Params struct {
	Alpha     float64 `json:"alpha"`     // production exponent, (0,1)
	Beta      float64 `json:"beta"`      // discount factor, (0,1)
	GridMin   float64 `json:"grid_min"`  // lowest capital level, (0,1]
	GridMax   float64 `json:"grid_max"`  // highest capital level
	GridSize  int     `json:"grid_size"` // number of grid points
	Tolerance float64 `json:"tolerance"` // sup-norm convergence threshold
	MaxIter   int     `json:"max_iter"`  // iteration cap
}

// DefaultParams returns the parameterization used throughout the examples:
// alpha=0.4, beta=0.96, 1000 points on [0.001, 90], tol 1e-6, 600 iterations.
func DefaultParams() Params {
	return Params{
		Alpha:     0.4,
		Beta:      0.96,
		GridMin:   0.001,
		GridMax:   90.0,
		GridSize:  1000,
		Tolerance: 1e-6,
		MaxIter:   600,
	}
}

// Validate checks that p describes a solvable problem.
//
// GridMin is capped at 1 because the feasible interval for next-period capital
// is [GridMin, k^alpha], and k^alpha >= GridMin holds at every grid point only
// when GridMin^alpha >= GridMin.
func (p Params) Validate() error {
	if !(p.Alpha > 0 && p.Alpha < 1) {
		return fmt.Errorf("%w: alpha must be in (0,1), got %v", ErrInvalidParams, p.Alpha)
	}
	if !(p.Beta > 0 && p.Beta < 1) {
		return fmt.Errorf("%w: beta must be in (0,1), got %v", ErrInvalidParams, p.Beta)
	}
	if !(p.GridMin > 0 && p.GridMin <= 1) {
		return fmt.Errorf("%w: grid_min must be in (0,1], got %v", ErrInvalidParams, p.GridMin)
	}
	if !(p.GridMax > p.GridMin) {
		return fmt.Errorf("%w: grid_max (%v) must exceed grid_min (%v)", ErrInvalidParams, p.GridMax, p.GridMin)
	}
	if p.GridSize < 2 {
		return fmt.Errorf("%w: grid_size must be at least 2, got %d", ErrInvalidParams, p.GridSize)
	}
	if !(p.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidParams, p.Tolerance)
	}
	if p.MaxIter < 1 {
		return fmt.Errorf("%w: max_iter must be at least 1, got %d", ErrInvalidParams, p.MaxIter)
	}
	return nil
}

// Utility is log utility with a soft penalty for c <= 0.
func Utility(c float64) float64 {
	if c > 0 {
		return math.Log(c)
	}
	return Penalty
}

// Output returns k^alpha.
func (p Params) Output(k float64) float64 {
	return math.Pow(k, p.Alpha)
}

// SteadyState returns the capital level k* with k* = alpha*beta*(k*)^alpha.
func (p Params) SteadyState() float64 {
	return math.Pow(p.Alpha*p.Beta, 1/(1-p.Alpha))
}
