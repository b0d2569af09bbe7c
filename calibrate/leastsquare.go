package calibrate

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Problem is a least-squares objective: minimise the sum of squared residuals.
type Problem struct {
	// Residuals is the number of residuals.
	Residuals int
	// Func writes the residuals at x into dst. An error marks x as unusable.
	Func func(dst, x []float64) error
	// Jacobian writes d(residual_i)/d(x_j) at x into the Residuals×len(x) matrix dst.
	Jacobian func(dst *mat.Dense, x []float64) error
}

// LeastSquareResults is the outcome of a least-squares solve. A poor fit is
// reported through ChiSquare, never as an error.
type LeastSquareResults struct {
	X         []float64
	ChiSquare float64
	// Covariance is (JᵀJ)⁻¹ at X.
	Covariance *mat.SymDense
	// InverseJacobian is (JᵀJ)⁻¹Jᵀ at X: dX/d(residual) to first order.
	InverseJacobian *mat.Dense
	Iterations      int
	Converged       bool
}

// NonLinearLeastSquare minimises a Problem from a start point.
type NonLinearLeastSquare interface {
	Solve(p Problem, start []float64) (LeastSquareResults, error)
}

// LevenbergMarquardt is a Marquardt-scaled damped Gauss-Newton solver.
type LevenbergMarquardt struct {
	// MaxIterations bounds the number of Jacobian evaluations. Zero means 500.
	MaxIterations int
	// Tolerance is the relative chi² improvement and step size below which
	// the solve stops. Zero means 1e-12.
	Tolerance float64
	// InitialDamping is the starting damping factor. Zero means 1e-3.
	InitialDamping float64
}

var _ NonLinearLeastSquare = LevenbergMarquardt{}

const (
	defaultMaxIterations  = 500
	defaultTolerance      = 1e-12
	defaultInitialDamping = 1e-3
	maxDamping            = 1e20
)

func (lm LevenbergMarquardt) settings() (int, float64, float64) {
	iters, tol, damping := lm.MaxIterations, lm.Tolerance, lm.InitialDamping
	if iters <= 0 {
		iters = defaultMaxIterations
	}
	if tol <= 0 {
		tol = defaultTolerance
	}
	if damping <= 0 {
		damping = defaultInitialDamping
	}
	return iters, tol, damping
}

func (lm LevenbergMarquardt) Solve(p Problem, start []float64) (LeastSquareResults, error) {
	if err := p.validate(start); err != nil {
		return LeastSquareResults{}, err
	}
	maxIter, tol, damping := lm.settings()
	n, m := p.Residuals, len(start)

	x := append([]float64(nil), start...)
	r := make([]float64, n)
	if err := p.Func(r, x); err != nil {
		return LeastSquareResults{}, fmt.Errorf("residuals at start point: %w", err)
	}
	chi2 := floats.Dot(r, r)

	jac := mat.NewDense(n, m, nil)
	normal := mat.NewSymDense(m, nil)
	trial := mat.NewSymDense(m, nil)
	var grad, step mat.VecDense
	var chol mat.Cholesky
	xNew := make([]float64, m)
	rNew := make([]float64, n)

	converged := false
	iter := 0
outer:
	for ; iter < maxIter && chi2 > 0; iter++ {
		if err := p.Jacobian(jac, x); err != nil {
			return LeastSquareResults{}, fmt.Errorf("jacobian at iteration %d: %w", iter, err)
		}
		normal.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(n, r))

		for {
			trial.CopySym(normal)
			for j := 0; j < m; j++ {
				d := normal.At(j, j)
				trial.SetSym(j, j, d+damping*math.Max(d, tol))
			}
			if !chol.Factorize(trial) {
				damping *= 10
				if damping > maxDamping {
					break outer
				}
				continue
			}
			if err := chol.SolveVecTo(&step, &grad); err != nil {
				damping *= 10
				continue
			}
			for j := range xNew {
				xNew[j] = x[j] - step.AtVec(j)
			}
			chiNew := math.Inf(1)
			if err := p.Func(rNew, xNew); err == nil {
				chiNew = floats.Dot(rNew, rNew)
			}
			if chiNew < chi2 {
				improvement := chi2 - chiNew
				stepNorm := floats.Norm(step.RawVector().Data, 2)
				copy(x, xNew)
				copy(r, rNew)
				chi2 = chiNew
				damping = math.Max(damping/10, 1e-15)
				if improvement <= tol*chi2 || stepNorm <= tol*(floats.Norm(x, 2)+tol) {
					converged = true
					iter++
					break outer
				}
				break
			}
			damping *= 10
			if damping > maxDamping {
				// No downhill step left at machine precision.
				converged = true
				break outer
			}
		}
	}
	if chi2 == 0 {
		converged = true
	}
	if !converged {
		slog.Debug("levenberg-marquardt stopped before convergence", "iterations", iter, "chi2", chi2)
	}
	return finish(p, x, chi2, iter, converged)
}

func (p Problem) validate(start []float64) error {
	if p.Residuals <= 0 || p.Func == nil || p.Jacobian == nil {
		return fmt.Errorf("%w: problem needs residuals, a residual function and a jacobian", ErrInvalidArgument)
	}
	if len(start) == 0 {
		return fmt.Errorf("%w: empty start point", ErrInvalidArgument)
	}
	return nil
}

// finish computes the covariance and inverse Jacobian at the solution from a
// thin SVD of the Jacobian, so rank-deficient fits still get a pseudo-inverse.
func finish(p Problem, x []float64, chi2 float64, iter int, converged bool) (LeastSquareResults, error) {
	n, m := p.Residuals, len(x)
	jac := mat.NewDense(n, m, nil)
	if err := p.Jacobian(jac, x); err != nil {
		return LeastSquareResults{}, fmt.Errorf("jacobian at solution: %w", err)
	}
	var svd mat.SVD
	if !svd.Factorize(jac, mat.SVDThin) {
		return LeastSquareResults{}, fmt.Errorf("%w: svd of the jacobian failed", ErrSingular)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	cutoff := 0.0
	if len(values) > 0 {
		cutoff = values[0] * float64(max(n, m)) * 1e-15
	}
	k := len(values)
	inv := mat.NewDense(m, k, nil)
	invSq := mat.NewDense(m, k, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			if values[j] <= cutoff {
				continue
			}
			inv.Set(i, j, v.At(i, j)/values[j])
			invSq.Set(i, j, v.At(i, j)/(values[j]*values[j]))
		}
	}
	// V Σ⁺ Uᵀ and V Σ⁻² Vᵀ.
	pinv := mat.NewDense(m, n, nil)
	pinv.Mul(inv, u.T())
	var cov mat.Dense
	cov.Mul(invSq, v.T())
	covariance := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			covariance.SetSym(i, j, 0.5*(cov.At(i, j)+cov.At(j, i)))
		}
	}
	return LeastSquareResults{
		X:               x,
		ChiSquare:       chi2,
		Covariance:      covariance,
		InverseJacobian: pinv,
		Iterations:      iter,
		Converged:       converged,
	}, nil
}
