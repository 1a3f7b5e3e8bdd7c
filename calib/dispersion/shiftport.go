package dispersion

import "errors"

// ErrNoShiftEstimator indicates that a pixel-shift estimate was requested
// without an estimator being available. The capability is explicit: its
// absence is an error on the calling path, never a silent no-op.
var ErrNoShiftEstimator = errors.New("dispersion: no shift estimator available")

// ShiftEstimator estimates the sub-pixel shift between an observed and a
// reference array at a resolution of 1/upsample pixels. The returned s
// satisfies observed(x) ~ reference(x - s).
//
// The calib/shift package provides a phase cross-correlation
// implementation.
type ShiftEstimator interface {
	EstimateShift(observed, reference []float64, upsample int) (float64, error)
}

// EstimatePixelShift runs est on the two arrays, failing with
// ErrNoShiftEstimator when est is nil.
func EstimatePixelShift(est ShiftEstimator, observed, reference []float64, upsample int) (float64, error) {
	if est == nil {
		return 0, ErrNoShiftEstimator
	}
	return est.EstimateShift(observed, reference, upsample)
}
