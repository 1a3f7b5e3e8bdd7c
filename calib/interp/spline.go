package interp

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnsortedCoords indicates coordinates that are not strictly increasing.
	ErrUnsortedCoords = errors.New("interp: coordinates not strictly increasing")
	// ErrLengthMismatch indicates coordinate and value slices of different length.
	ErrLengthMismatch = errors.New("interp: length mismatch")
	// ErrTooFewPoints indicates fewer than two sample points.
	ErrTooFewPoints = errors.New("interp: need at least two points")
)

// Spline is a natural cubic interpolating spline through a set of
// strictly increasing sample points. The zero value is not usable;
// construct with Fit.
type Spline struct {
	x  []float64
	y  []float64
	m2 []float64 // second derivatives at the knots
}

// Fit constructs a natural cubic spline through (x, y). The x values must
// be strictly increasing; duplicates make the spline system singular and
// are rejected. With exactly two points the spline degrades to linear
// interpolation. The input slices are copied.
func Fit(x, y []float64) (*Spline, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d coordinates vs %d values", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(x))
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("%w: x[%d]=%v, x[%d]=%v", ErrUnsortedCoords, i-1, x[i-1], i, x[i])
		}
	}

	n := len(x)
	s := &Spline{
		x:  append([]float64(nil), x...),
		y:  append([]float64(nil), y...),
		m2: make([]float64, n),
	}
	if n == 2 {
		return s, nil
	}

	// Tridiagonal system for the interior second derivatives; natural
	// boundary conditions pin m2[0] = m2[n-1] = 0.
	diag := make([]float64, n)
	rhs := make([]float64, n)
	upper := make([]float64, n)
	for i := 1; i < n-1; i++ {
		h0 := x[i] - x[i-1]
		h1 := x[i+1] - x[i]
		diag[i] = 2 * (h0 + h1)
		upper[i] = h1
		rhs[i] = 6 * ((y[i+1]-y[i])/h1 - (y[i]-y[i-1])/h0)
	}

	// Thomas forward sweep over rows 1..n-2.
	for i := 2; i < n-1; i++ {
		lower := x[i] - x[i-1]
		f := lower / diag[i-1]
		diag[i] -= f * upper[i-1]
		rhs[i] -= f * rhs[i-1]
	}
	for i := n - 2; i >= 1; i-- {
		s.m2[i] = (rhs[i] - upper[i]*s.m2[i+1]) / diag[i]
	}

	return s, nil
}

// Eval evaluates the spline at t. Outside the fitted domain the boundary
// ordinate is held constant.
func (s *Spline) Eval(t float64) float64 {
	n := len(s.x)
	if t <= s.x[0] {
		return s.y[0]
	}
	if t >= s.x[n-1] {
		return s.y[n-1]
	}

	// Index of the segment [x[i], x[i+1]] containing t.
	i := sort.SearchFloat64s(s.x, t) - 1

	h := s.x[i+1] - s.x[i]
	a := (s.x[i+1] - t) / h
	b := (t - s.x[i]) / h
	return a*s.y[i] + b*s.y[i+1] +
		((a*a*a-a)*s.m2[i]+(b*b*b-b)*s.m2[i+1])*h*h/6
}

// EvalSlice evaluates the spline at every element of ts and returns
// the results as a new slice.
func (s *Spline) EvalSlice(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = s.Eval(t)
	}
	return out
}

// Resample interpolates flux sampled at coords onto the target
// coordinates. It fits a spline to (coords, flux) and evaluates it at
// every target, clamping beyond the boundaries.
func Resample(coords, flux, targets []float64) ([]float64, error) {
	s, err := Fit(coords, flux)
	if err != nil {
		return nil, err
	}
	return s.EvalSlice(targets), nil
}
