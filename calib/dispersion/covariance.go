package dispersion

import (
	"errors"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"
)

// FitOutput is the raw least-squares output handed to a
// CovarianceEstimator: the solution vector and the residual function it
// minimizes.
type FitOutput struct {
	// Params is the fitted parameter vector.
	Params []float64
	// Residual evaluates the objective's residual vector at a parameter
	// vector, writing Size values into dst.
	Residual func(dst, params []float64)
	// Size is the residual vector length.
	Size int
}

// CovarianceEstimator converts raw least-squares output into a parameter
// covariance matrix. The stock implementation is SVDCovariance; callers
// can substitute their own through WithCovariance.
type CovarianceEstimator interface {
	Covariance(out *FitOutput) (*mat.Dense, error)
}

// ErrDegenerateFit indicates a covariance estimate from a rank-deficient
// or empty fit output.
var ErrDegenerateFit = errors.New("dispersion: degenerate fit output")

// SVDCovariance estimates the covariance as the Moore-Penrose
// pseudo-inverse of J'J, built from an SVD of the numeric Jacobian at the
// solution. Singular values below the working-precision threshold are
// discarded rather than inverted.
type SVDCovariance struct{}

// Covariance implements CovarianceEstimator.
func (SVDCovariance) Covariance(out *FitOutput) (*mat.Dense, error) {
	if out == nil || len(out.Params) == 0 || out.Size == 0 || out.Residual == nil {
		return nil, ErrDegenerateFit
	}
	dim := len(out.Params)

	jac := mat.NewDense(out.Size, dim, nil)
	nj := lm.NumJac{Func: out.Residual}
	nj.Jac(jac, append([]float64(nil), out.Params...))

	var svd mat.SVD
	if ok := svd.Factorize(jac, mat.SVDThin); !ok {
		return nil, ErrDegenerateFit
	}
	s := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	threshold := math.SmallestNonzeroFloat64
	if len(s) > 0 {
		threshold = 2.220446049250313e-16 * float64(max(out.Size, dim)) * s[0]
	}

	cov := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			sum := 0.0
			for k := 0; k < len(s); k++ {
				if s[k] <= threshold {
					continue
				}
				sum += v.At(i, k) * v.At(j, k) / (s[k] * s[k])
			}
			cov.Set(i, j, sum)
		}
	}
	return cov, nil
}
