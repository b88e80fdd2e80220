// Package vfi solves the deterministic growth model by value function
// iteration.
//
// A Solver owns an immutable capital grid and a policy buffer. Bellman maps a
// value-function guess to its image under the Bellman operator: it fits a
// piecewise-linear interpolant to the guess and, for every grid point k,
// maximizes
//
//	ln(k^alpha - k') + beta * v(k')
//
// over k' in [grid minimum, k^alpha]. The upper bound is the resource
// constraint itself, so the optimizer never proposes negative consumption even
// when an early guess is far from the fixed point; the utility penalty only
// backs that up.
//
// Solve iterates Bellman from an initial guess until the sup-norm distance
// between successive guesses drops below the tolerance (StatusConverged) or the
// iteration cap is hit (StatusMaxIterReached). Hitting the cap is reported
// through Result.Status, not as an error.
//
// Example:
//
//	res, err := vfi.Solve(ctx, model.DefaultParams(), vfi.Options{})
//	if err != nil {
//		return err
//	}
//	if res.Status != vfi.StatusConverged {
//		log.Printf("stopped after %d iterations, error %g", res.Iterations, res.Distance)
//	}
package vfi
