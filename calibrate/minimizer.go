package calibrate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Minimizer solves a least-squares Problem by handing chi² and its gradient
// 2Jᵀr to a general-purpose gonum/optimize method.
type Minimizer struct {
	// Method defaults to BFGS.
	Method   optimize.Method
	Settings *optimize.Settings
}

var _ NonLinearLeastSquare = Minimizer{}

func (mz Minimizer) Solve(p Problem, start []float64) (LeastSquareResults, error) {
	if err := p.validate(start); err != nil {
		return LeastSquareResults{}, err
	}
	n, m := p.Residuals, len(start)
	r := make([]float64, n)
	if err := p.Func(r, start); err != nil {
		return LeastSquareResults{}, fmt.Errorf("residuals at start point: %w", err)
	}

	jac := mat.NewDense(n, m, nil)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			res := make([]float64, n)
			if err := p.Func(res, x); err != nil {
				return math.Inf(1)
			}
			return floats.Dot(res, res)
		},
		Grad: func(grad, x []float64) {
			res := make([]float64, n)
			if p.Func(res, x) != nil || p.Jacobian(jac, x) != nil {
				for i := range grad {
					grad[i] = math.NaN()
				}
				return
			}
			g := mat.NewVecDense(m, grad)
			g.MulVec(jac.T(), mat.NewVecDense(n, res))
			g.ScaleVec(2, g)
		},
	}
	method := mz.Method
	if method == nil {
		method = &optimize.BFGS{}
	}
	res, err := optimize.Minimize(problem, start, mz.Settings, method)
	if res == nil {
		return LeastSquareResults{}, fmt.Errorf("minimize: %w", err)
	}
	x := append([]float64(nil), res.X...)
	if err := p.Func(r, x); err != nil {
		return LeastSquareResults{}, fmt.Errorf("residuals at solution: %w", err)
	}
	return finish(p, x, floats.Dot(r, r), res.MajorIterations, converged(res.Status))
}

// converged reports whether the method stopped at a minimum rather than on a
// budget or a failure.
func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return true
	}
	return false
}
