// Package shift estimates the sub-pixel displacement between two spectra
// by phase cross-correlation.
//
// [PhaseCorrelator] satisfies the dispersion.ShiftEstimator port: it
// forms the normalized cross-power spectrum of the two arrays, locates
// the integer correlation peak through an inverse FFT, and refines it by
// evaluating the band-limited correlation on a grid of 1/upsample pixel
// spacing around the peak.
package shift
