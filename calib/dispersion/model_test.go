package dispersion

import (
	"math"
	"testing"
)

func TestPolyEval(t *testing.T) {
	// 1 + 2x + 3x^2 at x = 2 -> 17.
	if got := polyEval(2, []float64{1, 2, 3}); got != 17 {
		t.Fatalf("polyEval = %v, want 17", got)
	}
	if got := polyEval(5, nil); got != 0 {
		t.Fatalf("polyEval(empty) = %v, want 0", got)
	}
}

func TestChebEvalLowOrders(t *testing.T) {
	// T0 = 1, T1 = x, T2 = 2x^2-1, T3 = 4x^3-3x.
	for _, x := range []float64{-1, -0.3, 0, 0.7, 1} {
		if got := chebEval(x, []float64{1}); got != 1 {
			t.Fatalf("T0(%v) = %v", x, got)
		}
		if got := chebEval(x, []float64{0, 1}); got != x {
			t.Fatalf("T1(%v) = %v", x, got)
		}
		want2 := 2*x*x - 1
		if got := chebEval(x, []float64{0, 0, 1}); math.Abs(got-want2) > 1e-14 {
			t.Fatalf("T2(%v) = %v, want %v", x, got, want2)
		}
		want3 := 4*x*x*x - 3*x
		if got := chebEval(x, []float64{0, 0, 0, 1}); math.Abs(got-want3) > 1e-14 {
			t.Fatalf("T3(%v) = %v, want %v", x, got, want3)
		}
	}
}

func TestGradient(t *testing.T) {
	g := gradient([]float64{0, 1, 4, 9, 16})
	want := []float64{1, 2, 4, 6, 7}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("gradient[%d] = %v, want %v", i, g[i], want[i])
		}
	}
}

func TestGradientLinearGrid(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = 4000 + 3*float64(i)
	}
	for i, g := range gradient(xs) {
		if math.Abs(g-3) > 1e-9 {
			t.Fatalf("gradient[%d] = %v, want 3", i, g)
		}
	}
}

func TestEffectiveCoeffsDegreeZero(t *testing.T) {
	m := Method{Family: FamilyPolynomial, Degree: 0}
	coeffs := effectiveCoeffs(m, []float64{2.5}, nil)
	if len(coeffs) != 2 || coeffs[0] != 2.5 || coeffs[1] != 1 {
		t.Fatalf("coeffs = %v, want [2.5 1]", coeffs)
	}
}

func TestTransformCoordsVelocity(t *testing.T) {
	m := Method{Family: FamilyVelocity}
	xs := []float64{4000, 7000}
	v := 3000.0 // m/s
	out := transformCoords(m, xs, []float64{v})
	for i, x := range xs {
		want := x * (1 + v/SpeedOfLight)
		if math.Abs(out[i]-want) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestTransformCoordsVelocityPixel(t *testing.T) {
	m := Method{Family: FamilyVelocityPixel}
	xs := []float64{4000, 4003, 4006, 4009}
	out := transformCoords(m, xs, []float64{0, 0.5})
	for i := range xs {
		want := xs[i] + 0.5*3
		if math.Abs(out[i]-want) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}
