package calibrate

import (
	"fmt"
	"math"

	"github.com/banachtech/smile/smile"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// SmileModelFitter fits a smile model to one expiry of market volatilities.
// Residual i is (model vol - market vol)/error at strike i.
type SmileModelFitter[T smile.ModelData[T]] struct {
	forward    float64
	strikes    []float64
	expiry     float64
	vols       []float64
	errors     []float64
	provider   smile.VolatilityFunctionProvider[T]
	transforms []ParameterTransform

	// Solver defaults to LevenbergMarquardt.
	Solver NonLinearLeastSquare
}

// NewSmileModelFitter validates the market data: a positive forward, a
// non-negative expiry, strictly increasing positive strikes, one finite vol
// and one positive error per strike.
func NewSmileModelFitter[T smile.ModelData[T]](forward float64, strikes []float64, expiry float64, vols, errors []float64,
	provider smile.VolatilityFunctionProvider[T], transforms []ParameterTransform) (*SmileModelFitter[T], error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: nil volatility provider", ErrInvalidArgument)
	}
	if !(forward > 0) || math.IsInf(forward, 1) {
		return nil, fmt.Errorf("%w: forward must be positive and finite, got %v", ErrInvalidArgument, forward)
	}
	if !(expiry >= 0) {
		return nil, fmt.Errorf("%w: expiry must be non-negative, got %v", ErrInvalidArgument, expiry)
	}
	n := len(strikes)
	if n == 0 || len(vols) != n || len(errors) != n {
		return nil, fmt.Errorf("%w: %d strikes, %d vols and %d errors", ErrInvalidArgument, n, len(vols), len(errors))
	}
	for i := range strikes {
		if !(strikes[i] > 0) || (i > 0 && !(strikes[i] > strikes[i-1])) {
			return nil, fmt.Errorf("%w: strikes must be positive and strictly increasing, got %v at %d", ErrInvalidArgument, strikes[i], i)
		}
		if math.IsNaN(vols[i]) || math.IsInf(vols[i], 0) {
			return nil, fmt.Errorf("%w: volatility at strike %v is %v", ErrInvalidArgument, strikes[i], vols[i])
		}
		if !(errors[i] > 0) {
			return nil, fmt.Errorf("%w: error at strike %v must be positive, got %v", ErrInvalidArgument, strikes[i], errors[i])
		}
	}
	return &SmileModelFitter[T]{
		forward:    forward,
		strikes:    append([]float64(nil), strikes...),
		expiry:     expiry,
		vols:       append([]float64(nil), vols...),
		errors:     append([]float64(nil), errors...),
		provider:   provider,
		transforms: transforms,
	}, nil
}

func (f *SmileModelFitter[T]) Strikes() []float64 { return append([]float64(nil), f.strikes...) }

// ModelValues returns the model volatility at every strike.
func (f *SmileModelFitter[T]) ModelValues(data T) ([]float64, error) {
	out := make([]float64, len(f.strikes))
	for i, k := range f.strikes {
		v, err := f.provider.Volatility(f.forward, k, f.expiry, data)
		if err != nil {
			return nil, fmt.Errorf("strike %v: %w", k, err)
		}
		out[i] = v
	}
	return out, nil
}

// Residuals returns the weighted residuals (model - market)/error.
func (f *SmileModelFitter[T]) Residuals(data T) ([]float64, error) {
	out, err := f.ModelValues(data)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = (out[i] - f.vols[i]) / f.errors[i]
	}
	return out, nil
}

// ModelJacobian returns d(residual_i)/d(parameter_j) from the provider adjoint.
func (f *SmileModelFitter[T]) ModelJacobian(data T) (*mat.Dense, error) {
	m := data.NumberOfParameters()
	jac := mat.NewDense(len(f.strikes), m, nil)
	for i, k := range f.strikes {
		adj, err := f.provider.VolatilityAdjoint(f.forward, k, f.expiry, data)
		if err != nil {
			return nil, fmt.Errorf("strike %v: %w", k, err)
		}
		for j := 0; j < m; j++ {
			jac.Set(i, j, adj.Derivative(smile.DerivativeAlpha+j)/f.errors[i])
		}
	}
	return jac, nil
}

// FiniteDifferenceJacobian is ModelJacobian by central differences, for
// providers without an analytic adjoint or for checking one.
func (f *SmileModelFitter[T]) FiniteDifferenceJacobian(data T) (*mat.Dense, error) {
	m := data.NumberOfParameters()
	x := make([]float64, m)
	for j := range x {
		v, err := data.Parameter(j)
		if err != nil {
			return nil, err
		}
		x[j] = v
	}
	return FiniteDifferenceJacobian(len(f.strikes), func(dst, p []float64) error {
		d, err := withParameters(data, p)
		if err != nil {
			return err
		}
		r, err := f.Residuals(d)
		if err != nil {
			return err
		}
		copy(dst, r)
		return nil
	}, x)
}

// FiniteDifferenceJacobian approximates the n×len(x) Jacobian of fn at x with
// central differences. The first error returned by fn is reported.
func FiniteDifferenceJacobian(n int, fn func(dst, x []float64) error, x []float64) (*mat.Dense, error) {
	var first error
	jac := mat.NewDense(n, len(x), nil)
	fd.Jacobian(jac, func(y, p []float64) {
		if err := fn(y, p); err != nil && first == nil {
			first = err
		}
	}, x, &fd.JacobianSettings{Formula: fd.Central})
	if first != nil {
		return nil, first
	}
	return jac, nil
}

// LeastSquareResultsWithTransform reports a fit in model terms.
type LeastSquareResultsWithTransform[T any] struct {
	LeastSquareResults
	ModelParameters T
	// ModelParameterSensitivityToData is d(model parameter)/d(market vol), one
	// row per model parameter. Rows of fixed parameters are zero.
	ModelParameterSensitivityToData *mat.Dense
}

// Solve fits the model from start, keeping the parameters flagged in fixed at
// their start value. A nil mask fits every parameter.
func (f *SmileModelFitter[T]) Solve(start T, fixed []bool) (LeastSquareResultsWithTransform[T], error) {
	var zero LeastSquareResultsWithTransform[T]
	m := start.NumberOfParameters()
	if len(f.transforms) != m {
		return zero, fmt.Errorf("%w: %d transforms for %d parameters", ErrInvalidArgument, len(f.transforms), m)
	}
	startVec := make([]float64, m)
	for j := range startVec {
		v, err := start.Parameter(j)
		if err != nil {
			return zero, err
		}
		startVec[j] = v
	}
	tr, err := NewUncoupledParameterTransforms(startVec, f.transforms, fixed)
	if err != nil {
		return zero, err
	}
	free := tr.Free()

	toModel := func(x []float64) (T, error) {
		return withParameters(start, tr.Inverse(x))
	}
	problem := Problem{
		Residuals: len(f.strikes),
		Func: func(dst, x []float64) error {
			d, err := toModel(x)
			if err != nil {
				return err
			}
			r, err := f.Residuals(d)
			if err != nil {
				return err
			}
			copy(dst, r)
			return nil
		},
		Jacobian: func(dst *mat.Dense, x []float64) error {
			d, err := toModel(x)
			if err != nil {
				return err
			}
			full, err := f.ModelJacobian(d)
			if err != nil {
				return err
			}
			grad := tr.InverseGradient(x)
			for i := range f.strikes {
				for j, p := range free {
					dst.Set(i, j, full.At(i, p)*grad[j])
				}
			}
			return nil
		},
	}

	solver := f.Solver
	if solver == nil {
		solver = LevenbergMarquardt{}
	}
	res, err := solver.Solve(problem, tr.Transform(startVec))
	if err != nil {
		return zero, err
	}
	model, err := toModel(res.X)
	if err != nil {
		return zero, err
	}

	// d(fit)/d(vol_k) = -InverseJacobian·d(residual)/d(vol_k) = InverseJacobian[:,k]/error_k.
	grad := tr.InverseGradient(res.X)
	sens := mat.NewDense(m, len(f.strikes), nil)
	for j, p := range free {
		for k := range f.strikes {
			sens.Set(p, k, grad[j]*res.InverseJacobian.At(j, k)/f.errors[k])
		}
	}
	return LeastSquareResultsWithTransform[T]{
		LeastSquareResults:              res,
		ModelParameters:                 model,
		ModelParameterSensitivityToData: sens,
	}, nil
}

// withParameters builds a model value from a full parameter vector.
func withParameters[T smile.ModelData[T]](template T, p []float64) (T, error) {
	d := template
	for j, v := range p {
		var err error
		if d, err = d.With(j, v); err != nil {
			return template, err
		}
	}
	return d, nil
}

// SabrTransforms keeps alpha and nu positive, beta in (0, 1) and rho in (-1, 1).
func SabrTransforms() []ParameterTransform {
	return []ParameterTransform{
		smile.AlphaIndex: SingleRangeLimitTransform{},
		smile.BetaIndex:  DoubleRangeLimitTransform{Lower: 0, Upper: 1},
		smile.RhoIndex:   DoubleRangeLimitTransform{Lower: -1, Upper: 1},
		smile.NuIndex:    SingleRangeLimitTransform{},
	}
}

// NewSabrModelFitter is a SmileModelFitter for SABR with the standard transforms.
func NewSabrModelFitter(forward float64, strikes []float64, expiry float64, vols, errors []float64,
	provider smile.VolatilityFunctionProvider[smile.SabrFormulaData]) (*SmileModelFitter[smile.SabrFormulaData], error) {
	return NewSmileModelFitter[smile.SabrFormulaData](forward, strikes, expiry, vols, errors, provider, SabrTransforms())
}

// SabrStartingPoint guesses a start for a fit at the given beta: alpha matches
// the volatility at the strike nearest the forward, rho is 0 and nu 0.3.
func SabrStartingPoint(forward float64, strikes, vols []float64, beta float64) (smile.SabrFormulaData, error) {
	if len(strikes) == 0 || len(strikes) != len(vols) {
		return smile.SabrFormulaData{}, fmt.Errorf("%w: %d strikes and %d vols", ErrInvalidArgument, len(strikes), len(vols))
	}
	atm := 0
	for i, k := range strikes {
		if math.Abs(k-forward) < math.Abs(strikes[atm]-forward) {
			atm = i
		}
	}
	alpha := math.Abs(vols[atm]) * math.Pow(forward, 1-beta)
	return smile.NewSabrFormulaData(alpha, beta, 0, 0.3)
}
