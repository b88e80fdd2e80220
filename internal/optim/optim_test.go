package optim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFunction struct {
	name   string
	f      func(float64) float64
	lo, hi float64
	optLoc float64
	optVal float64
}

func minimizationCases() []testFunction {
	return []testFunction{
		{
			name: "quadratic interior",
			f:    func(x float64) float64 { return (x-1.5)*(x-1.5) + 2 },
			lo:   0, hi: 4,
			optLoc: 1.5, optVal: 2,
		},
		{
			name: "quadratic at lower bound",
			f:    func(x float64) float64 { return (x + 1) * (x + 1) },
			lo:   0, hi: 3,
			optLoc: 0, optVal: 1,
		},
		{
			name: "quadratic at upper bound",
			f:    func(x float64) float64 { return (x - 10) * (x - 10) },
			lo:   0, hi: 3,
			optLoc: 3, optVal: 49,
		},
		{
			name: "cosine",
			f:    math.Cos,
			lo:   2, hi: 5,
			optLoc: math.Pi, optVal: -1,
		},
		{
			name: "abs kink",
			f:    func(x float64) float64 { return math.Abs(x - 0.3) },
			lo:   -1, hi: 1,
			optLoc: 0.3, optVal: 0,
		},
		{
			name: "x log x",
			f:    func(x float64) float64 { return x * math.Log(x) },
			lo:   0.01, hi: 2,
			optLoc: 1 / math.E, optVal: -1 / math.E,
		},
	}
}

func TestMinimize(t *testing.T) {
	for _, tc := range minimizationCases() {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Minimize(tc.f, tc.lo, tc.hi, Settings{})
			require.NoError(t, err)

			assert.True(t, r.Converged)
			assert.InDelta(t, tc.optLoc, r.X, 1e-4)
			assert.InDelta(t, tc.optVal, r.F, 1e-3)
			assert.Equal(t, tc.f(r.X), r.F)
			assert.GreaterOrEqual(t, r.X, tc.lo)
			assert.LessOrEqual(t, r.X, tc.hi)
			assert.Greater(t, r.Evals, 1)
			assert.LessOrEqual(t, r.Evals, DefaultMaxEval)
		})
	}
}

func TestMaximize_NegatesObjective(t *testing.T) {
	f := func(x float64) float64 { return -(x - 0.7) * (x - 0.7) + 3 }
	r, err := Maximize(f, 0, 2, Settings{XTol: 1e-8})
	require.NoError(t, err)

	assert.InDelta(t, 0.7, r.X, 1e-6)
	assert.InDelta(t, 3.0, r.F, 1e-10)
}

func TestMaximize_DegenerateInterval(t *testing.T) {
	calls := 0
	f := func(x float64) float64 { calls++; return x * 2 }
	r, err := Maximize(f, 1.25, 1.25, Settings{})
	require.NoError(t, err)

	assert.Equal(t, 1.25, r.X)
	assert.Equal(t, 2.5, r.F)
	assert.Equal(t, 1, calls)
	assert.True(t, r.Converged)
}

func TestMinimize_InvalidInterval(t *testing.T) {
	f := func(x float64) float64 { return x }
	cases := [][2]float64{
		{1, 0},
		{math.NaN(), 1},
		{0, math.NaN()},
		{math.Inf(-1), 1},
		{0, math.Inf(1)},
	}
	for _, c := range cases {
		_, err := Minimize(f, c[0], c[1], Settings{})
		if !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("Minimize on [%v, %v]: err = %v, want ErrInvalidInterval", c[0], c[1], err)
		}
	}
}

func TestMinimize_MaxEval(t *testing.T) {
	r, err := Minimize(math.Cos, 2, 5, Settings{XTol: 1e-12, MaxEval: 3})
	require.NoError(t, err)

	assert.False(t, r.Converged)
	assert.Equal(t, 3, r.Evals)
}

func TestMinimize_NeverLeavesInterval(t *testing.T) {
	lo, hi := 0.2, 0.9
	f := func(x float64) float64 {
		if x < lo || x > hi {
			t.Fatalf("objective evaluated outside [%v, %v] at %v", lo, hi, x)
		}
		return -math.Log(x) - math.Log(1.1-x)
	}
	r, err := Minimize(f, lo, hi, Settings{})
	require.NoError(t, err)
	assert.InDelta(t, 0.55, r.X, 1e-4)
}
