// Package grid provides the immutable, uniformly spaced capital grid the value
// function is represented on.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrTooFewPoints indicates a grid with fewer than two points.
	ErrTooFewPoints = errors.New("grid: at least two points are required")

	// ErrNonPositiveLower indicates a lower bound <= 0.
	ErrNonPositiveLower = errors.New("grid: lower bound must be strictly positive")

	// ErrEmptyRange indicates an upper bound that does not exceed the lower bound.
	ErrEmptyRange = errors.New("grid: upper bound must exceed lower bound")
)

// Grid is an ordered set of capital levels. The zero value is not usable;
// construct with New.
type Grid struct {
	points []float64
}

// New returns n points evenly spaced on [lo, hi], both ends included.
func New(lo, hi float64, n int) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	if !(lo > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositiveLower, lo)
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrEmptyRange, lo, hi)
	}
	pts := floats.Span(make([]float64, n), lo, hi)
	pts[n-1] = hi
	// Span can round the interior so that adjacent points collide when the
	// spacing is near machine epsilon.
	for i := 1; i < n; i++ {
		if !(pts[i] > pts[i-1]) {
			return nil, fmt.Errorf("%w: spacing underflows at index %d", ErrEmptyRange, i)
		}
	}
	return &Grid{points: pts}, nil
}

// Len returns the number of points.
func (g *Grid) Len() int { return len(g.points) }

// At returns the i-th capital level.
func (g *Grid) At(i int) float64 { return g.points[i] }

// Min returns the lowest capital level.
func (g *Grid) Min() float64 { return g.points[0] }

// Max returns the highest capital level.
func (g *Grid) Max() float64 { return g.points[len(g.points)-1] }

// Step returns the uniform spacing between adjacent points.
func (g *Grid) Step() float64 {
	return (g.Max() - g.Min()) / float64(len(g.points)-1)
}

// Points returns a copy of the capital levels.
func (g *Grid) Points() []float64 {
	out := make([]float64, len(g.points))
	copy(out, g.points)
	return out
}

// Window returns the index range [from, to) of points lying in [lo, hi].
func (g *Grid) Window(lo, hi float64) (from, to int) {
	from = len(g.points)
	for i, k := range g.points {
		if k >= lo {
			from = i
			break
		}
	}
	to = from
	for to < len(g.points) && g.points[to] <= hi {
		to++
	}
	return from, to
}

// Raw exposes the backing slice to the solver without copying. Callers in
// this module must not mutate it.
func (g *Grid) Raw() []float64 { return g.points }
