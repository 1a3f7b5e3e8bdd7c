package dispersion

// SpeedOfLight is the SI speed of light in m/s. The velocity parameters
// of the "v" and "x" families are expressed in m/s and divided by this
// constant; the Legendre velocity role is a dimensionless fraction.
const SpeedOfLight = 299792458.0

// polyEval evaluates a polynomial with ascending coefficients via Horner.
func polyEval(x float64, c []float64) float64 {
	if len(c) == 0 {
		return 0
	}
	y := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}

// chebEval evaluates a Chebyshev series via the Clenshaw recurrence.
func chebEval(x float64, c []float64) float64 {
	switch len(c) {
	case 0:
		return 0
	case 1:
		return c[0]
	}
	b1, b2 := 0.0, 0.0
	for k := len(c) - 1; k >= 1; k-- {
		b1, b2 = c[k]+2*x*b1-b2, b1
	}
	return c[0] + x*b1 - b2
}

// gradient computes the discrete first derivative of xs with unit
// spacing: centered differences in the interior, one-sided at the ends.
func gradient(xs []float64) []float64 {
	n := len(xs)
	g := make([]float64, n)
	if n < 2 {
		return g
	}
	g[0] = xs[1] - xs[0]
	g[n-1] = xs[n-1] - xs[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (xs[i+1] - xs[i-1]) / 2
	}
	return g
}

// effectiveCoeffs returns the coordinate-transform coefficients for the
// non-scale parameter slice. A degree-0 polynomial or Chebyshev model
// carries only the offset; a fixed unit slope is appended so the
// transform still maps coordinates onto coordinates.
func effectiveCoeffs(m Method, params []float64, overrides map[int]float64) []float64 {
	coeffs := append([]float64(nil), params...)
	if (m.Family == FamilyPolynomial || m.Family == FamilyChebyshev) && m.Degree == 0 {
		coeffs = append(coeffs, 1)
	}
	if len(overrides) > 0 {
		coeffs = applyOverrides(coeffs, overrides)
	}
	return coeffs
}

// transformCoords maps the coordinate array through the family's
// distortion model with the given effective coefficients.
func transformCoords(m Method, xs, coeffs []float64) []float64 {
	out := make([]float64, len(xs))
	switch m.Family {
	case FamilyPolynomial:
		for i, x := range xs {
			out[i] = polyEval(x, coeffs)
		}
	case FamilyChebyshev:
		for i, x := range xs {
			out[i] = chebEval(x, coeffs)
		}
	case FamilyVelocity:
		f := 1 + coeffs[0]/SpeedOfLight
		for i, x := range xs {
			out[i] = x * f
		}
	case FamilyVelocityPixel:
		f := 1 + coeffs[0]/SpeedOfLight
		g := gradient(xs)
		for i, x := range xs {
			out[i] = x*f + coeffs[1]*g[i]
		}
	}
	return out
}
