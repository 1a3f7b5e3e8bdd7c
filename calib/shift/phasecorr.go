package shift

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

var (
	// ErrEmptyInput indicates an empty signal.
	ErrEmptyInput = errors.New("shift: empty input")
	// ErrLengthMismatch indicates signals of different length.
	ErrLengthMismatch = errors.New("shift: length mismatch")
	// ErrBadUpsample indicates an upsampling factor below 1.
	ErrBadUpsample = errors.New("shift: upsample factor must be at least 1")
)

// PhaseCorrelator estimates pixel shifts by phase cross-correlation.
// It is stateless and safe for concurrent use.
type PhaseCorrelator struct{}

// New returns a PhaseCorrelator.
func New() *PhaseCorrelator {
	return &PhaseCorrelator{}
}

// EstimateShift returns the displacement s, at a resolution of
// 1/upsample pixels, for which observed(x) best matches reference(x-s).
// Signals whose length is not a power of two are zero-padded for the
// transform.
func (pc *PhaseCorrelator) EstimateShift(observed, reference []float64, upsample int) (float64, error) {
	n := len(observed)
	if n == 0 {
		return 0, ErrEmptyInput
	}
	if n != len(reference) {
		return 0, fmt.Errorf("%w: observed %d vs reference %d", ErrLengthMismatch, n, len(reference))
	}
	if upsample < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrBadUpsample, upsample)
	}

	m := nextPow2(n)
	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return 0, fmt.Errorf("shift: fft plan: %w", err)
	}

	obsSpec := make([]complex128, m)
	refSpec := make([]complex128, m)
	buf := make([]complex128, m)

	for i := 0; i < n; i++ {
		buf[i] = complex(observed[i], 0)
	}
	if err := plan.Forward(obsSpec, buf); err != nil {
		return 0, fmt.Errorf("shift: forward FFT: %w", err)
	}
	for i := range buf {
		buf[i] = 0
	}
	for i := 0; i < n; i++ {
		buf[i] = complex(reference[i], 0)
	}
	if err := plan.Forward(refSpec, buf); err != nil {
		return 0, fmt.Errorf("shift: forward FFT: %w", err)
	}

	// Normalized cross-power spectrum: a pure displacement reduces to a
	// phase ramp whose inverse transform peaks at the shift.
	cross := make([]complex128, m)
	for k := range cross {
		c := obsSpec[k] * cmplx.Conj(refSpec[k])
		if mag := cmplx.Abs(c); mag > 0 {
			c /= complex(mag, 0)
		}
		cross[k] = c
	}

	corr := make([]complex128, m)
	if err := plan.Inverse(corr, cross); err != nil {
		return 0, fmt.Errorf("shift: inverse FFT: %w", err)
	}

	peak := 0
	best := math.Inf(-1)
	for i, c := range corr {
		if r := real(c); r > best {
			best = r
			peak = i
		}
	}
	lag := float64(peak)
	if peak > m/2 {
		lag -= float64(m)
	}
	if upsample == 1 {
		return lag, nil
	}

	// Refine by direct evaluation of the band-limited correlation on a
	// 1/upsample grid within one pixel of the integer peak.
	bestLag := lag
	best = math.Inf(-1)
	steps := 2 * upsample
	for i := 0; i <= steps; i++ {
		t := lag - 1 + float64(2*i)/float64(steps)
		if v := correlationAt(cross, t); v > best {
			best = v
			bestLag = t
		}
	}
	return bestLag, nil
}

// correlationAt evaluates the inverse transform of the cross-power
// spectrum at a fractional lag t using signed frequencies.
func correlationAt(cross []complex128, t float64) float64 {
	m := len(cross)
	sum := 0.0
	for k, c := range cross {
		kk := k
		if kk > m/2 {
			kk -= m
		}
		phase := 2 * math.Pi * float64(kk) * t / float64(m)
		sum += real(c)*math.Cos(phase) - imag(c)*math.Sin(phase)
	}
	return sum / float64(m)
}

func nextPow2(n int) int {
	m := 1
	for m < n {
		m <<= 1
	}
	return m
}
