// Package testutil provides shared test assertions for numerical results.
package testutil

import (
	"math"
	"testing"
)

// TB is the subset of testing.TB the helpers use.
type TB interface {
	Helper()
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

var _ TB = (testing.TB)(nil)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

// AssertFloatsNear reports every index where got and want differ by more than
// tol. Lengths must match.
func AssertFloatsNear(t TB, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
		return
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); !(d <= tol) {
			t.Errorf("index %d: got %v, want %v (|diff| %g > %g)", i, got[i], want[i], d, tol)
		}
	}
}

// AssertBetween fails when any value lies outside [lo[i], hi[i]].
func AssertBetween(t TB, values, lo, hi []float64) {
	t.Helper()
	for i, v := range values {
		if v < lo[i] || v > hi[i] {
			t.Errorf("index %d: %v outside [%v, %v]", i, v, lo[i], hi[i])
		}
	}
}
