package testutil

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// fakeT records failures instead of failing the real test.
type fakeT struct {
	errors []string
	fatal  bool
}

func (f *fakeT) Helper() {}
func (f *fakeT) Errorf(format string, args ...interface{}) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}
func (f *fakeT) Fatalf(format string, args ...interface{}) {
	f.fatal = true
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func TestAssertNoError(t *testing.T) {
	ft := &fakeT{}
	AssertNoError(ft, nil)
	if ft.fatal {
		t.Error("AssertNoError(nil) failed")
	}
	AssertNoError(ft, errors.New("boom"))
	if !ft.fatal {
		t.Error("AssertNoError(err) did not fail")
	}
}

func TestAssertError(t *testing.T) {
	ft := &fakeT{}
	AssertError(ft, errors.New("boom"))
	if ft.fatal {
		t.Error("AssertError(err) failed")
	}
	AssertError(ft, nil)
	if !ft.fatal {
		t.Error("AssertError(nil) did not fail")
	}
}

func TestAssertFloatsNear(t *testing.T) {
	ft := &fakeT{}
	AssertFloatsNear(ft, []float64{1, 2}, []float64{1.0005, 2}, 1e-3)
	if len(ft.errors) != 0 {
		t.Errorf("unexpected failures: %v", ft.errors)
	}

	AssertFloatsNear(ft, []float64{1, math.NaN()}, []float64{1.1, 2}, 1e-3)
	if len(ft.errors) != 2 {
		t.Errorf("got %d failures, want 2 (diff and NaN)", len(ft.errors))
	}

	ft = &fakeT{}
	AssertFloatsNear(ft, []float64{1}, []float64{1, 2}, 1)
	if !ft.fatal {
		t.Error("length mismatch should be fatal")
	}
}

func TestAssertBetween(t *testing.T) {
	ft := &fakeT{}
	AssertBetween(ft, []float64{0.5, 2}, []float64{0, 0}, []float64{1, 1})
	if len(ft.errors) != 1 {
		t.Errorf("got %d failures, want 1", len(ft.errors))
	}
}
