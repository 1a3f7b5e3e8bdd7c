// Package dispersion recalibrates the wavelength solution of a spectrum
// against a reference spectrum of the same instrument by fitting a
// parametric distortion model to the flux drift between the two.
//
// The model family is selected by a compact method string:
//
//   - "pN":  polynomial coordinate drift of degree N
//   - "cN":  Chebyshev coordinate drift of degree N
//   - "v":   relativistic velocity shift
//   - "x":   velocity shift plus a zeroth-order pixel shift
//   - "l<roles>N": Legendre coefficient transform of degree N, fitting any
//     combination of the roles p (pixel shift), v (velocity shift) and
//     w (wavelength shift), e.g. "lw3", "lpv5", "lpvw6"
//
// [Recalibrate] parses the method, fits the selected model with
// Levenberg-Marquardt least squares, and reconstructs the corrected
// wavelength-per-pixel array from the fitted parameters. Optimizer
// non-convergence is reported through [Result.Status] rather than as an
// error: the best-found parameters are still returned and the caller
// decides whether to accept them.
package dispersion
