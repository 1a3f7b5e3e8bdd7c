package legendre

import "gonum.org/v1/gonum/mat"

// PixelShiftMatrix returns the (degree+1)x(degree+1) coefficient-space
// operator of a first-order pixel shift p: identity on the diagonal and
// M[i,j] = p*(2i+1) for every j > i with j-i odd.
//
// The structure follows from d/dx P_j expanding over the lower odd-offset
// Legendre polynomials with weight (2i+1).
func PixelShiftMatrix(p float64, degree int) *mat.Dense {
	n := degree + 1
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
		for j := i + 1; j < n; j += 2 {
			m.Set(i, j, p*float64(2*i+1))
		}
	}
	return m
}

// Transform applies a (pixel, velocity, wavelength) shift triple to the
// Legendre coefficients c of a wavelength solution and returns the new
// coefficient vector T = (1+v) * M(p) * (c + w*e0).
//
// Steps, in fixed order: the wavelength shift w is added to the constant
// coefficient only; the pixel-shift operator M(p) is applied; when
// preserveNorm is set the pixel-shifted vector is rescaled back to its
// pre-shift Euclidean norm (a pixel shift alone is degenerate with a
// uniform velocity scaling, so norm preservation removes that freedom);
// finally every coefficient is scaled by (1+v).
//
// The input is never modified, and identical inputs reproduce identical
// outputs. Transform(c, 0, 0, 0, false) returns c unchanged.
func Transform(c []float64, p, v, w float64, preserveNorm bool) []float64 {
	if len(c) == 0 {
		return nil
	}
	shifted := append([]float64(nil), c...)
	shifted[0] += w

	in := mat.NewVecDense(len(shifted), shifted)
	out := mat.NewVecDense(len(shifted), nil)
	out.MulVec(PixelShiftMatrix(p, len(c)-1), in)

	if preserveNorm {
		before := mat.Norm(in, 2)
		after := mat.Norm(out, 2)
		if after != 0 {
			out.ScaleVec(before/after, out)
		}
	}

	res := make([]float64, len(c))
	for i := range res {
		res[i] = out.AtVec(i) * (1 + v)
	}
	return res
}
