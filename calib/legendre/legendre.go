package legendre

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrLengthMismatch indicates coordinate and value slices of different length.
	ErrLengthMismatch = errors.New("legendre: length mismatch")
	// ErrTooFewPoints indicates fewer samples than fit coefficients.
	ErrTooFewPoints = errors.New("legendre: too few points for degree")
	// ErrBadDegree indicates a negative polynomial degree.
	ErrBadDegree = errors.New("legendre: negative degree")
)

// Eval evaluates the Legendre series sum(c[k] * P_k(x)) using the
// three-term recurrence (k+1)*P_{k+1} = (2k+1)*x*P_k - k*P_{k-1}.
func Eval(x float64, c []float64) float64 {
	if len(c) == 0 {
		return 0
	}
	sum := c[0]
	if len(c) == 1 {
		return sum
	}
	pkm1 := 1.0
	pk := x
	sum += c[1] * pk
	for k := 1; k < len(c)-1; k++ {
		pkp1 := (float64(2*k+1)*x*pk - float64(k)*pkm1) / float64(k+1)
		pkm1, pk = pk, pkp1
		sum += c[k+1] * pk
	}
	return sum
}

// EvalSlice evaluates the series at every element of xs.
func EvalSlice(xs []float64, c []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Eval(x, c)
	}
	return out
}

// Grid returns n equally spaced points spanning [-1, 1], the fixed pixel
// grid that coefficient vectors refer to. Grid(1) returns [-1].
func Grid(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = -1
		return out
	}
	for i := range out {
		out[i] = -1 + 2*float64(i)/float64(n-1)
	}
	return out
}

// Fit computes the least-squares Legendre coefficients of degree `degree`
// through the samples (xs, ys). The returned slice has length degree+1.
func Fit(xs, ys []float64, degree int) ([]float64, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadDegree, degree)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d coordinates vs %d values", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < degree+1 {
		return nil, fmt.Errorf("%w: %d points, degree %d", ErrTooFewPoints, len(xs), degree)
	}

	a := vandermonde(xs, degree)
	b := mat.NewVecDense(len(ys), ys)
	c := mat.NewVecDense(degree+1, nil)

	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		return nil, fmt.Errorf("legendre: could not solve QR system: %w", err)
	}

	out := make([]float64, degree+1)
	for i := range out {
		out[i] = c.AtVec(i)
	}
	return out, nil
}

// vandermonde builds the Legendre-basis design matrix: row i holds
// P_0(x_i) .. P_degree(x_i).
func vandermonde(xs []float64, degree int) *mat.Dense {
	a := mat.NewDense(len(xs), degree+1, nil)
	for i, x := range xs {
		pkm1 := 1.0
		a.Set(i, 0, pkm1)
		if degree == 0 {
			continue
		}
		pk := x
		a.Set(i, 1, pk)
		for k := 1; k < degree; k++ {
			pkp1 := (float64(2*k+1)*x*pk - float64(k)*pkm1) / float64(k+1)
			pkm1, pk = pk, pkp1
			a.Set(i, k+1, pk)
		}
	}
	return a
}
