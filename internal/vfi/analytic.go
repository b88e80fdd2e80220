package vfi

import (
	"errors"
	"math"

	"github.com/banshee-data/vfi/internal/grid"
	"github.com/banshee-data/vfi/internal/model"
)

// ErrEmptyWindow indicates a comparison window containing no grid points.
var ErrEmptyWindow = errors.New("vfi: comparison window contains no grid points")

// Comparison summarizes how far a numerical solution is from the closed form.
type Comparison struct {
	Points         int     `json:"points"`
	MaxValueError  float64 `json:"max_value_error"`
	MaxPolicyError float64 `json:"max_policy_error"`
}

// windowSteps is the minimum number of grid steps ComparisonWindow reaches
// above the steady state.
const windowSteps = 10

// ComparisonWindow returns the interior interval CompareAnalytic is usually
// run over: [k*/2, 2k*], with the upper end pushed out to at least
// windowSteps grid steps above k* so coarse grids still hold several points.
// Points near the lower end of a wide grid sit where ln k is steepest and
// linear interpolation is coarsest, which is why the window stays interior.
func ComparisonWindow(p model.Params) (lo, hi float64, err error) {
	g, err := grid.New(p.GridMin, p.GridMax, p.GridSize)
	if err != nil {
		return 0, 0, err
	}
	ks := p.SteadyState()
	lo = math.Max(ks/2, g.Min())
	hi = math.Min(math.Max(2*ks, ks+windowSteps*g.Step()), g.Max())
	return lo, hi, nil
}

// CompareAnalytic measures res against the closed-form value and policy over
// grid points in [lo, hi].
func CompareAnalytic(p model.Params, res *Result, lo, hi float64) (Comparison, error) {
	g, err := grid.New(p.GridMin, p.GridMax, len(res.Capital))
	if err != nil {
		return Comparison{}, err
	}
	from, to := g.Window(lo, hi)
	c := Comparison{Points: to - from}
	if c.Points == 0 {
		return c, ErrEmptyWindow
	}
	for i := from; i < to; i++ {
		k := res.Capital[i]
		c.MaxValueError = math.Max(c.MaxValueError, math.Abs(res.Value[i]-p.AnalyticValue(k)))
		c.MaxPolicyError = math.Max(c.MaxPolicyError, math.Abs(res.Policy[i]-p.AnalyticPolicy(k)))
	}
	return c, nil
}

// Feasible reports whether every policy entry respects
// grid minimum <= k' <= k^alpha, returning the first offending index otherwise.
func Feasible(p model.Params, res *Result) (int, bool) {
	for i, k := range res.Capital {
		kp := res.Policy[i]
		if kp < p.GridMin || kp > p.Output(k) {
			return i, false
		}
	}
	return -1, true
}
