package legendre

import (
	"errors"
	"math"
	"testing"
)

func TestEvalLowOrders(t *testing.T) {
	// P0 = 1, P1 = x, P2 = (3x^2-1)/2, P3 = (5x^3-3x)/2.
	for _, x := range []float64{-1, -0.5, 0, 0.3, 1} {
		if got := Eval(x, []float64{1}); got != 1 {
			t.Fatalf("P0(%v) = %v, want 1", x, got)
		}
		if got := Eval(x, []float64{0, 1}); got != x {
			t.Fatalf("P1(%v) = %v, want %v", x, got, x)
		}
		want2 := (3*x*x - 1) / 2
		if got := Eval(x, []float64{0, 0, 1}); math.Abs(got-want2) > 1e-14 {
			t.Fatalf("P2(%v) = %v, want %v", x, got, want2)
		}
		want3 := (5*x*x*x - 3*x) / 2
		if got := Eval(x, []float64{0, 0, 0, 1}); math.Abs(got-want3) > 1e-14 {
			t.Fatalf("P3(%v) = %v, want %v", x, got, want3)
		}
	}
}

func TestEvalSeries(t *testing.T) {
	c := []float64{2, -1, 0.5}
	x := 0.4
	want := 2 + (-1)*x + 0.5*(3*x*x-1)/2
	if got := Eval(x, c); math.Abs(got-want) > 1e-14 {
		t.Fatalf("Eval = %v, want %v", got, want)
	}
}

func TestGrid(t *testing.T) {
	g := Grid(5)
	want := []float64{-1, -0.5, 0, 0.5, 1}
	for i := range g {
		if math.Abs(g[i]-want[i]) > 1e-15 {
			t.Fatalf("Grid[%d] = %v, want %v", i, g[i], want[i])
		}
	}
	if g := Grid(1); g[0] != -1 {
		t.Fatalf("Grid(1) = %v, want [-1]", g)
	}
}

func TestFitRecoversCoefficients(t *testing.T) {
	c := []float64{5500, 1500, 3, -0.2}
	xs := Grid(200)
	ys := EvalSlice(xs, c)
	got, err := Fit(xs, ys, 3)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i := range c {
		if math.Abs(got[i]-c[i]) > 1e-8*math.Max(1, math.Abs(c[i])) {
			t.Fatalf("coefficient %d: got %v, want %v", i, got[i], c[i])
		}
	}
}

func TestFitErrors(t *testing.T) {
	if _, err := Fit([]float64{0, 1}, []float64{0}, 1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("length mismatch: got %v", err)
	}
	if _, err := Fit([]float64{0, 1}, []float64{0, 1}, 4); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("too few points: got %v", err)
	}
	if _, err := Fit([]float64{0}, []float64{0}, -1); !errors.Is(err, ErrBadDegree) {
		t.Fatalf("bad degree: got %v", err)
	}
}
