// Package interp provides smooth spline interpolation for resampling
// spectra onto transformed coordinate grids.
//
//   - [Spline]:   natural cubic interpolating spline with clamped
//     (boundary-hold) extrapolation
//   - [Resample]: one-shot fit-and-evaluate convenience wrapper
//
// Evaluation outside the fitted domain holds the boundary ordinate
// constant rather than extrapolating the cubic, so distorted coordinate
// grids that overhang the reference domain stay bounded.
package interp
