package testutil

import "math"

// LinearWavelengths returns n wavelengths spaced evenly from lo to hi.
func LinearWavelengths(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// EmissionLine describes one Gaussian feature of a synthetic spectrum.
type EmissionLine struct {
	Center    float64 // wavelength of the line peak
	Width     float64 // Gaussian sigma in wavelength units
	Amplitude float64
}

// LineSpectrum evaluates a flat continuum plus Gaussian emission lines on
// the given wavelength grid. The generators are deterministic so tests
// can compare fits against exact injected distortions.
func LineSpectrum(wavl []float64, continuum float64, lines []EmissionLine) []float64 {
	out := make([]float64, len(wavl))
	for i, w := range wavl {
		f := continuum
		for _, l := range lines {
			d := (w - l.Center) / l.Width
			f += l.Amplitude * math.Exp(-d*d/2)
		}
		out[i] = f
	}
	return out
}

// StandardLines returns a handful of emission lines spread across the
// 4000-7000 range used by the recalibration tests.
func StandardLines() []EmissionLine {
	return []EmissionLine{
		{Center: 4200, Width: 6, Amplitude: 150},
		{Center: 4850, Width: 4, Amplitude: 320},
		{Center: 5400, Width: 8, Amplitude: 210},
		{Center: 5900, Width: 5, Amplitude: 400},
		{Center: 6550, Width: 7, Amplitude: 260},
	}
}
