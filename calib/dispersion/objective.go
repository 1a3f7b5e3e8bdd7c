package dispersion

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-calib/calib/interp"
	"github.com/cwbudde/algo-calib/calib/legendre"
)

// objective bundles the residual function handed to the optimizer with
// its vector size. The residual closes over a spline fitted once to the
// reference flux; because spline interpolation is linear in the
// ordinates, the flux-scale parameter multiplies the resampled
// prediction instead of refitting the spline every iteration.
type objective struct {
	residual func(dst, params []float64)
	size     int
}

// singleFamilyObjective builds the residual for the polynomial,
// Chebyshev, velocity and velocity+pixel families:
// (predicted - observed) / sigma.
func singleFamilyObjective(m Method, coords, observed []float64, spl *interp.Spline,
	invSigma []float64, overrides map[int]float64) objective {

	n := len(observed)
	base := make([]float64, n)
	pred := make([]float64, n)

	return objective{
		size: n,
		residual: func(dst, params []float64) {
			coeffs := effectiveCoeffs(m, params[1:], overrides)
			xt := transformCoords(m, coords, coeffs)
			for i := range base {
				base[i] = spl.Eval(xt[i])
			}
			vecmath.ScaleBlock(pred, base, params[0])
			for i := range dst {
				dst[i] = (pred[i] - observed[i]) * invSigma[i]
			}
		},
	}
}

// legendreObjective builds the residual for the Legendre coefficient
// transform: the flux block concatenated with a LASSO-style penalty
// sqrt(reg*|shift param|) on every fitted shift parameter. reg = 0 keeps
// the penalty block at zero.
func legendreObjective(m Method, observed []float64, spl *interp.Spline,
	invSigma []float64, lcRef []float64, grid []float64,
	defaults map[Role]float64, reg float64) objective {

	n := len(observed)
	base := make([]float64, n)
	pred := make([]float64, n)
	preserveNorm := m.HasRole(RolePixel) && m.HasRole(RoleVelocity)

	return objective{
		size: n + len(m.Roles),
		residual: func(dst, params []float64) {
			roles := mergeRoles(defaults, m.Roles, params[1:])
			lc := legendre.Transform(lcRef,
				roles[RolePixel], roles[RoleVelocity], roles[RoleWavelength],
				preserveNorm)
			xt := legendre.EvalSlice(grid, lc)
			for i := range base {
				base[i] = spl.Eval(xt[i])
			}
			vecmath.ScaleBlock(pred, base, params[0])
			for i := 0; i < n; i++ {
				dst[i] = (pred[i] - observed[i]) * invSigma[i]
			}
			for j, p := range params[1:] {
				dst[n+j] = math.Sqrt(reg * math.Abs(p))
			}
		},
	}
}

// mergeRoles overlays the fitted shift parameters (in selector order)
// onto a copy of the caller-supplied defaults. Unfit roles keep their
// default, or zero when no default was given. The defaults map itself is
// never written.
func mergeRoles(defaults map[Role]float64, fitted []Role, params []float64) map[Role]float64 {
	roles := map[Role]float64{RolePixel: 0, RoleVelocity: 0, RoleWavelength: 0}
	for r, val := range defaults {
		roles[r] = val
	}
	for i, r := range fitted {
		roles[r] = params[i]
	}
	return roles
}
