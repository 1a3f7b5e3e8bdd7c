// Package legendre provides Legendre-basis evaluation, least-squares
// coefficient fitting, and the coefficient-space transforms used to model
// dispersion-solution drift.
//
//   - [Eval], [EvalSlice]: series evaluation via the three-term recurrence
//   - [Grid]:              the fixed [-1, 1] pixel grid coefficients refer to
//   - [Fit]:               least-squares coefficients through QR factorization
//   - [PixelShiftMatrix]:  first-order pixel-shift operator in coefficient space
//   - [Transform]:         combined wavelength/pixel/velocity-shift transform
//
// A wavelength solution over N pixels is represented as a coefficient
// vector of length degree+1 evaluated on Grid(N). Transform perturbs such
// a vector by a (pixel, velocity, wavelength) shift triple; the optional
// norm-preservation step removes the degeneracy between a pixel shift and
// a uniform velocity scaling when both are fitted at once.
package legendre
