package dispersion

import (
	"errors"
	"fmt"
	"sort"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-calib/calib/interp"
	"github.com/cwbudde/algo-calib/calib/legendre"
	"github.com/cwbudde/algo-calib/calib/scale"
)

var (
	// ErrLengthMismatch indicates input arrays of inconsistent length.
	ErrLengthMismatch = errors.New("dispersion: input length mismatch")
	// ErrParameterCount indicates an initial guess or coefficient
	// override inconsistent with the model's parameter count.
	ErrParameterCount = errors.New("dispersion: parameter count mismatch")
)

// Status reports the optimizer outcome of a fit.
type Status int

const (
	// StatusConverged means the optimizer met its tolerances.
	StatusConverged Status = iota
	// StatusNoConvergence means the optimizer stopped without meeting
	// tolerance; the best-found parameters are still reported.
	StatusNoConvergence
)

// String returns a short human-readable status label.
func (s Status) String() string {
	if s == StatusConverged {
		return "converged"
	}
	return "no convergence"
}

// Result holds the outcome of a recalibration fit.
type Result struct {
	// Wavelength is the corrected wavelength-per-pixel array, length N.
	Wavelength []float64
	// Params is the fitted parameter vector. Params[0] is the flux
	// scale; for degree-0 polynomial and Chebyshev fits the fixed unit
	// slope is appended so the coefficients stand on their own.
	Params []float64
	// Roles maps each Legendre role to its merged value: fitted roles
	// carry the optimizer result, unfit roles the caller default or 0.
	// Nil for non-Legendre families.
	Roles map[Role]float64
	// Covariance is the covariance matrix of the fitted parameter
	// vector, present only when requested.
	Covariance *mat.Dense
	// Status records whether the optimizer converged.
	Status Status
}

// config collects the per-fit options applied through Option values.
type config struct {
	initialGuess   []float64
	sigma          []float64
	reg            float64
	roleDefaults   map[Role]float64
	coeffOverrides map[int]float64
	rawCoords      bool
	wantCovariance bool
	covEstimator   CovarianceEstimator
	shiftSeed      ShiftEstimator
	upsample       int
}

// Option mutates a fit config.
type Option func(*config)

// WithInitialGuess supplies the full initial parameter vector, replacing
// the family's default heuristic. Its length must match the model's
// parameter count.
func WithInitialGuess(guess []float64) Option {
	return func(cfg *config) { cfg.initialGuess = guess }
}

// WithSigma supplies per-sample inverse weights for the flux residual
// (residual = (predicted-observed)/sigma). Length must match the spectra.
func WithSigma(sigma []float64) Option {
	return func(cfg *config) { cfg.sigma = sigma }
}

// WithRegularization sets the LASSO regularization coefficient applied to
// the fitted shift parameters of the Legendre family. Zero disables it.
func WithRegularization(reg float64) Option {
	return func(cfg *config) {
		if reg >= 0 {
			cfg.reg = reg
		}
	}
}

// WithRoleDefaults supplies values for Legendre roles that are not being
// fitted. The map is read, never written; fitted values are returned in
// Result.Roles.
func WithRoleDefaults(defaults map[Role]float64) Option {
	return func(cfg *config) { cfg.roleDefaults = defaults }
}

// WithCoeffOverrides pins coordinate-transform coefficients by index
// during and after the fit. An index equal to the coefficient count
// appends (polynomial and Chebyshev families only); larger gaps are
// rejected before fitting.
func WithCoeffOverrides(overrides map[int]float64) Option {
	return func(cfg *config) { cfg.coeffOverrides = overrides }
}

// WithRawCoords disables the default [-1,1] coordinate rescaling of the
// polynomial and Chebyshev families.
func WithRawCoords() Option {
	return func(cfg *config) { cfg.rawCoords = true }
}

// WithCovariance requests a parameter covariance matrix in the result.
// A nil estimator selects the stock SVD-based implementation.
func WithCovariance(est CovarianceEstimator) Option {
	return func(cfg *config) {
		cfg.wantCovariance = true
		cfg.covEstimator = est
	}
}

// WithShiftSeed seeds the pixel-shift initial guess of the "x" and
// Legendre p-role methods from a phase cross-correlation estimate before
// optimizing. The estimator must be non-nil; estimation failure aborts
// the fit.
func WithShiftSeed(est ShiftEstimator, upsample int) Option {
	return func(cfg *config) {
		cfg.shiftSeed = est
		cfg.upsample = upsample
	}
}

// Recalibrate fits the drift between observed (uncalibrated flux, length
// N) and the reference spectrum (refWavl, refFlux, same pixels) using the
// model selected by method, and returns the corrected wavelength
// solution together with the fitted parameters.
//
// Grammar and shape errors surface before any optimizer work. Optimizer
// non-convergence is not an error; inspect Result.Status.
func Recalibrate(observed, refWavl, refFlux []float64, method string, opts ...Option) (*Result, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(observed)
	if n != len(refWavl) || n != len(refFlux) {
		return nil, fmt.Errorf("%w: observed %d, reference wavelength %d, reference flux %d",
			ErrLengthMismatch, n, len(refWavl), len(refFlux))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrLengthMismatch, n)
	}
	if cfg.sigma != nil && len(cfg.sigma) != n {
		return nil, fmt.Errorf("%w: sigma length %d vs %d samples", ErrLengthMismatch, len(cfg.sigma), n)
	}
	if cfg.initialGuess != nil && len(cfg.initialGuess) != m.ParamCount() {
		return nil, fmt.Errorf("%w: initial guess length %d, method %q expects %d",
			ErrParameterCount, len(cfg.initialGuess), method, m.ParamCount())
	}
	if err := validateOverrides(m, cfg.coeffOverrides); err != nil {
		return nil, err
	}

	invSigma := make([]float64, n)
	for i := range invSigma {
		invSigma[i] = 1
		if cfg.sigma != nil {
			invSigma[i] = 1 / cfg.sigma[i]
		}
	}

	// Condition polynomial and Chebyshev fits on the unit interval.
	coords := refWavl
	var bndLo, bndHi float64
	scaled := false
	if (m.Family == FamilyPolynomial || m.Family == FamilyChebyshev) && !cfg.rawCoords {
		bndLo, bndHi = scale.Bounds(refWavl)
		coords = scale.ToUnitSlice(refWavl, bndLo, bndHi)
		scaled = true
	}

	// One spline over the reference flux serves every optimizer
	// iteration; a bad wavelength axis surfaces here, before fitting.
	spl, err := interp.Fit(coords, refFlux)
	if err != nil {
		return nil, fmt.Errorf("reference spectrum: %w", err)
	}

	p0 := cfg.initialGuess
	if p0 == nil {
		p0 = defaultGuess(m)
	} else {
		p0 = append([]float64(nil), p0...)
	}

	if cfg.shiftSeed != nil {
		if err := seedPixelShift(m, p0, cfg, observed, refFlux, n); err != nil {
			return nil, err
		}
	}

	var (
		obj   objective
		grid  []float64
		lcRef []float64
	)
	if m.Family == FamilyLegendre {
		grid = legendre.Grid(n)
		lcRef, err = legendre.Fit(grid, refWavl, m.Degree)
		if err != nil {
			return nil, fmt.Errorf("reference wavelength solution: %w", err)
		}
		obj = legendreObjective(m, observed, spl, invSigma, lcRef, grid, cfg.roleDefaults, cfg.reg)
	} else {
		obj = singleFamilyObjective(m, coords, observed, spl, invSigma, cfg.coeffOverrides)
	}

	popt, status := runLeastSquares(obj, p0, scaleHints(m), m.Family == FamilyLegendre)

	res := &Result{Status: status}

	switch m.Family {
	case FamilyPolynomial, FamilyChebyshev:
		coeffs := effectiveCoeffs(m, popt[1:], cfg.coeffOverrides)
		xt := transformCoords(m, coords, coeffs)
		if scaled {
			res.Wavelength = scale.FromUnitSlice(xt, bndLo, bndHi)
		} else {
			res.Wavelength = xt
		}
		res.Params = append([]float64{popt[0]}, coeffs...)

	case FamilyVelocity, FamilyVelocityPixel:
		res.Wavelength = transformCoords(m, refWavl, popt[1:])
		res.Params = popt

	case FamilyLegendre:
		res.Roles = mergeRoles(cfg.roleDefaults, m.Roles, popt[1:])
		preserveNorm := m.HasRole(RolePixel) && m.HasRole(RoleVelocity)
		lc := legendre.Transform(lcRef,
			res.Roles[RolePixel], res.Roles[RoleVelocity], res.Roles[RoleWavelength],
			preserveNorm)
		res.Wavelength = legendre.EvalSlice(grid, lc)
		res.Params = popt
	}

	if cfg.wantCovariance {
		est := cfg.covEstimator
		if est == nil {
			est = SVDCovariance{}
		}
		cov, err := est.Covariance(&FitOutput{
			Params:   popt,
			Residual: obj.residual,
			Size:     obj.size,
		})
		if err != nil {
			return nil, fmt.Errorf("dispersion: covariance estimate: %w", err)
		}
		res.Covariance = cov
	}

	return res, nil
}

// defaultGuess builds the per-family initial parameter heuristic.
func defaultGuess(m Method) []float64 {
	switch m.Family {
	case FamilyPolynomial, FamilyChebyshev:
		if m.Degree == 0 {
			return []float64{1, 0}
		}
		p0 := make([]float64, m.Degree+2)
		p0[0] = 1 // flux scale
		p0[2] = 1 // unit slope
		return p0
	case FamilyVelocity:
		return []float64{1, 100}
	case FamilyVelocityPixel:
		return []float64{1, 100, 0}
	case FamilyLegendre:
		initMag := map[Role]float64{RolePixel: 1e-6, RoleVelocity: 1e-6, RoleWavelength: 1e-3}
		p0 := []float64{1}
		for _, r := range m.Roles {
			p0 = append(p0, initMag[r])
		}
		return p0
	}
	return nil
}

// scaleHints returns the per-parameter magnitude hints used to condition
// the optimizer. The shift roles differ by orders of magnitude, so the
// driver fits in scaled units and maps back on exit.
func scaleHints(m Method) []float64 {
	switch m.Family {
	case FamilyVelocity:
		return []float64{1, 1e3}
	case FamilyVelocityPixel:
		return []float64{1, 1e3, 0.1}
	case FamilyLegendre:
		mag := map[Role]float64{RolePixel: 1e-6, RoleVelocity: 1e-7, RoleWavelength: 1e-3}
		hints := []float64{1}
		for _, r := range m.Roles {
			hints = append(hints, mag[r])
		}
		return hints
	}
	hints := make([]float64, m.ParamCount())
	for i := range hints {
		hints[i] = 1
	}
	return hints
}

// runLeastSquares drives the Levenberg-Marquardt optimizer over the
// objective, reparameterized so every fitted value is O(1). Failure to
// converge keeps the best parameters and reports StatusNoConvergence.
func runLeastSquares(obj objective, p0, hints []float64, tight bool) ([]float64, Status) {
	dim := len(p0)
	scaledResidual := func(dst, sx []float64) {
		x := make([]float64, dim)
		for i := range x {
			x[i] = sx[i] * hints[i]
		}
		obj.residual(dst, x)
	}

	init := make([]float64, dim)
	for i := range init {
		init[i] = p0[i] / hints[i]
	}

	jac := lm.NumJac{Func: scaledResidual}
	problem := lm.LMProblem{
		Dim:        dim,
		Size:       obj.size,
		Func:       scaledResidual,
		Jac:        jac.Jac,
		InitParams: init,
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	if tight {
		problem.Eps2 = 1e-10
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: 500, ObjectiveTol: 1e-16})

	popt := append([]float64(nil), p0...)
	if results != nil && len(results.X) == dim {
		for i := range popt {
			popt[i] = results.X[i] * hints[i]
		}
	}
	if err != nil {
		return popt, StatusNoConvergence
	}
	return popt, StatusConverged
}

// seedPixelShift replaces the pixel-shift entry of the initial guess with
// a phase cross-correlation estimate.
func seedPixelShift(m Method, p0 []float64, cfg config, observed, refFlux []float64, n int) error {
	usesPixel := m.Family == FamilyVelocityPixel ||
		(m.Family == FamilyLegendre && m.HasRole(RolePixel))
	if !usesPixel {
		return nil
	}

	shift, err := EstimatePixelShift(cfg.shiftSeed, observed, refFlux, cfg.upsample)
	if err != nil {
		return fmt.Errorf("dispersion: shift seed: %w", err)
	}

	// The estimator reports s with observed(x) ~ reference(x-s); the
	// models move the sampling point the other way.
	if m.Family == FamilyVelocityPixel {
		p0[2] = -shift
		return nil
	}
	for i, r := range m.Roles {
		if r == RolePixel {
			// Legendre pixel shifts live on the [-1,1] grid.
			p0[1+i] = -shift * 2 / float64(n-1)
		}
	}
	return nil
}

// validateOverrides checks coefficient override indices against the
// model before any fitting: indices address the coordinate-transform
// coefficient vector, and appending (index == current length) is allowed
// only for the polynomial and Chebyshev families.
func validateOverrides(m Method, overrides map[int]float64) error {
	if len(overrides) == 0 {
		return nil
	}
	if m.Family == FamilyLegendre {
		return fmt.Errorf("%w: coefficient overrides do not apply to the Legendre family (use role defaults)",
			ErrParameterCount)
	}

	baseLen := m.ParamCount() - 1
	if (m.Family == FamilyPolynomial || m.Family == FamilyChebyshev) && m.Degree == 0 {
		baseLen++ // fixed unit slope
	}
	growable := m.Family == FamilyPolynomial || m.Family == FamilyChebyshev

	keys := make([]int, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	length := baseLen
	for _, k := range keys {
		switch {
		case k < 0:
			return fmt.Errorf("%w: negative override index %d", ErrParameterCount, k)
		case k < length:
		case k == length && growable:
			length++
		default:
			return fmt.Errorf("%w: override index %d with %d coefficients", ErrParameterCount, k, length)
		}
	}
	return nil
}

// applyOverrides overlays validated overrides onto the coefficient
// vector, appending where the index equals the current length.
func applyOverrides(coeffs []float64, overrides map[int]float64) []float64 {
	keys := make([]int, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		switch {
		case k < len(coeffs):
			coeffs[k] = overrides[k]
		case k == len(coeffs):
			coeffs = append(coeffs, overrides[k])
		}
	}
	return coeffs
}
