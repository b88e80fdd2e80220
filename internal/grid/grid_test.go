package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g, err := New(0.001, 90, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1000, g.Len())
	assert.Equal(t, 0.001, g.Min())
	assert.Equal(t, 90.0, g.Max())
	assert.InDelta(t, (90-0.001)/999, g.Step(), 1e-12)

	for i := 1; i < g.Len(); i++ {
		if !(g.At(i) > g.At(i-1)) {
			t.Fatalf("grid not strictly increasing at %d: %v <= %v", i, g.At(i), g.At(i-1))
		}
		if g.At(i) < 0 {
			t.Fatalf("negative grid point at %d", i)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  float64
		n       int
		wantErr error
	}{
		{"one point", 0.1, 1, 1, ErrTooFewPoints},
		{"zero lower", 0, 1, 10, ErrNonPositiveLower},
		{"negative lower", -1, 1, 10, ErrNonPositiveLower},
		{"NaN lower", math.NaN(), 1, 10, ErrNonPositiveLower},
		{"equal bounds", 1, 1, 10, ErrEmptyRange},
		{"inverted bounds", 2, 1, 10, ErrEmptyRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.lo, tt.hi, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New(%v, %v, %d) error = %v, want %v", tt.lo, tt.hi, tt.n, err, tt.wantErr)
			}
			if g != nil {
				t.Errorf("expected nil grid on error")
			}
		})
	}
}

func TestPointsReturnsCopy(t *testing.T) {
	g, err := New(1, 2, 3)
	require.NoError(t, err)

	pts := g.Points()
	pts[0] = 100
	assert.Equal(t, 1.0, g.At(0), "mutating Points() must not change the grid")
	assert.Equal(t, []float64{1, 1.5, 2}, g.Points())
}

func TestWindow(t *testing.T) {
	g, err := New(1, 10, 10) // 1,2,...,10
	require.NoError(t, err)

	from, to := g.Window(2.5, 7)
	assert.Equal(t, 2, from)
	assert.Equal(t, 7, to)

	from, to = g.Window(0, 100)
	assert.Equal(t, 0, from)
	assert.Equal(t, 10, to)

	from, to = g.Window(20, 30)
	assert.Equal(t, from, to, "window beyond the grid is empty")
}
