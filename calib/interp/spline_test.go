package interp

import (
	"errors"
	"math"
	"testing"
)

func TestFitRejectsBadInput(t *testing.T) {
	for _, tc := range []struct {
		name string
		x, y []float64
		want error
	}{
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}, ErrLengthMismatch},
		{"single point", []float64{1}, []float64{1}, ErrTooFewPoints},
		{"descending", []float64{3, 2, 1}, []float64{0, 0, 0}, ErrUnsortedCoords},
		{"duplicate", []float64{1, 2, 2, 3}, []float64{0, 0, 0, 0}, ErrUnsortedCoords},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Fit(tc.x, tc.y); !errors.Is(err, tc.want) {
				t.Fatalf("Fit error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSplineReproducesKnots(t *testing.T) {
	x := []float64{0, 1, 2.5, 4, 5}
	y := []float64{1, 3, -2, 0.5, 2}
	s, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i := range x {
		if got := s.Eval(x[i]); math.Abs(got-y[i]) > 1e-12 {
			t.Fatalf("Eval(x[%d]) = %v, want %v", i, got, y[i])
		}
	}
}

func TestSplineLinearData(t *testing.T) {
	// A natural spline through samples of a straight line is that line.
	x := make([]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2*float64(i) + 1
	}
	s, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for _, tx := range []float64{0.5, 3.7, 10.25, 18.9} {
		want := 2*tx + 1
		if got := s.Eval(tx); math.Abs(got-want) > 1e-9 {
			t.Fatalf("Eval(%v) = %v, want %v", tx, got, want)
		}
	}
}

func TestSplineSmoothFunction(t *testing.T) {
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i) / 10
		y[i] = math.Sin(x[i])
	}
	s, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for tx := 0.05; tx < 19.9; tx += 0.73 {
		if got := s.Eval(tx); math.Abs(got-math.Sin(tx)) > 1e-4 {
			t.Fatalf("Eval(%v) = %v, want %v", tx, got, math.Sin(tx))
		}
	}
}

func TestClampedExtrapolation(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{5, 6, 7, 8}
	s, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := s.Eval(-10); got != 5 {
		t.Fatalf("Eval(-10) = %v, want boundary hold 5", got)
	}
	if got := s.Eval(100); got != 8 {
		t.Fatalf("Eval(100) = %v, want boundary hold 8", got)
	}
}

func TestTwoPointLinear(t *testing.T) {
	s, err := Fit([]float64{0, 2}, []float64{0, 4})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := s.Eval(1); math.Abs(got-2) > 1e-12 {
		t.Fatalf("Eval(1) = %v, want 2", got)
	}
}

func TestResample(t *testing.T) {
	coords := []float64{0, 1, 2, 3, 4}
	flux := []float64{0, 1, 4, 9, 16}
	got, err := Resample(coords, flux, []float64{0, 2, 4, 9})
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	want := []float64{0, 4, 16, 16} // last target clamps to the boundary
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("Resample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
