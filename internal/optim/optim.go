// Package optim provides a bounded one-dimensional optimizer.
//
// Maximize runs Brent's bounded method: golden-section search accelerated by
// successive parabolic interpolation, never evaluating the objective outside
// [lo, hi]. It needs no derivatives and converges on any unimodal objective.
//
// Errors:
//   - ErrInvalidInterval: lo > hi, or either bound is NaN or infinite.
package optim

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInterval indicates a search interval that cannot be searched.
	ErrInvalidInterval = errors.New("optim: invalid search interval")
)

const (
	// DefaultXTol is the absolute tolerance on the maximizer.
	DefaultXTol = 1e-5

	// DefaultMaxEval caps objective evaluations per call.
	DefaultMaxEval = 500
)

var (
	sqrtEps    = math.Sqrt(2.220446049250313e-16)
	goldenMean = 0.5 * (3 - math.Sqrt(5))
)

// Settings controls termination. Zero fields take the package defaults.
type Settings struct {
	XTol    float64
	MaxEval int
}

func (s Settings) withDefaults() Settings {
	if s.XTol <= 0 {
		s.XTol = DefaultXTol
	}
	if s.MaxEval <= 0 {
		s.MaxEval = DefaultMaxEval
	}
	return s
}

// Result is the outcome of one search.
type Result struct {
	X         float64 // maximizer, always within [lo, hi]
	F         float64 // objective at X
	Evals     int     // objective evaluations used
	Converged bool    // false when MaxEval was hit first
}

// Maximize returns the maximizer of f on [lo, hi].
//
// When lo == hi the single feasible point is evaluated and returned.
func Maximize(f func(float64) float64, lo, hi float64, s Settings) (Result, error) {
	r, err := Minimize(func(x float64) float64 { return -f(x) }, lo, hi, s)
	r.F = -r.F
	return r, err
}

// Minimize returns the minimizer of f on [lo, hi].
func Minimize(f func(float64) float64, lo, hi float64, s Settings) (Result, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo > hi {
		return Result{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidInterval, lo, hi)
	}
	if lo == hi {
		return Result{X: lo, F: f(lo), Evals: 1, Converged: true}, nil
	}
	s = s.withDefaults()

	a, b := lo, hi
	// x is the best point so far, w the second best, v the previous w.
	x := a + goldenMean*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	evals := 1

	var d, e float64
	xm := 0.5 * (a + b)
	tol1 := sqrtEps*math.Abs(x) + s.XTol/3
	tol2 := 2 * tol1

	for math.Abs(x-xm) > tol2-0.5*(b-a) {
		if evals >= s.MaxEval {
			return Result{X: x, F: fx, Evals: evals, Converged: false}, nil
		}

		golden := true
		if math.Abs(e) > tol1 {
			golden = false
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			r = e
			e = d

			if math.Abs(p) < math.Abs(0.5*q*r) && p > q*(a-x) && p < q*(b-x) {
				// parabolic step
				d = p / q
				u := x + d
				if u-a < tol2 || b-u < tol2 {
					d = tol1 * sign(xm-x)
				}
			} else {
				golden = true
			}
		}
		if golden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = goldenMean * e
		}

		u := x + sign(d)*math.Max(math.Abs(d), tol1)
		fu := f(u)
		evals++

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}

		xm = 0.5 * (a + b)
		tol1 = sqrtEps*math.Abs(x) + s.XTol/3
		tol2 = 2 * tol1
	}

	if c := clamp(x, lo, hi); c != x {
		x, fx = c, f(c)
		evals++
	}
	return Result{X: x, F: fx, Evals: evals, Converged: true}, nil
}

// sign returns -1 for negative x and +1 otherwise, so a zero step still moves.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
