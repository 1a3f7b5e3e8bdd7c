// Package scale provides affine coordinate rescaling onto the symmetric
// unit interval [-1, 1] and back. Conditioning polynomial fits on the unit
// interval keeps the Vandermonde columns comparable in magnitude.
package scale

// ToUnit maps x from the interval [a, b] onto [-1, 1].
// a and b must differ; behavior for a == b is undefined.
func ToUnit(x, a, b float64) float64 {
	return (2*x - (a + b)) / (b - a)
}

// FromUnit is the exact inverse of ToUnit: it maps y from [-1, 1]
// back onto [a, b].
func FromUnit(y, a, b float64) float64 {
	return ((b-a)*y + a + b) / 2
}

// ToUnitSlice returns a new slice with every element mapped onto [-1, 1].
func ToUnitSlice(xs []float64, a, b float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = ToUnit(x, a, b)
	}
	return out
}

// FromUnitSlice returns a new slice with every element mapped back onto [a, b].
func FromUnitSlice(ys []float64, a, b float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = FromUnit(y, a, b)
	}
	return out
}

// Bounds returns the minimum and maximum of xs.
// It returns (0, 0) for an empty slice.
func Bounds(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
