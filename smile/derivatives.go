package smile

// Ordering of ValueDerivatives.Derivatives for every volatility adjoint.
const (
	DerivativeForward = iota
	DerivativeStrike
	DerivativeAlpha
	DerivativeBeta
	DerivativeRho
	DerivativeNu
)

// ValueDerivatives is a value with its first order partial derivatives. The
// meaning of each position is fixed by the producing function.
type ValueDerivatives struct {
	Value       float64
	Derivatives []float64
}

// Derivative returns the partial derivative at position i.
func (v ValueDerivatives) Derivative(i int) float64 {
	return v.Derivatives[i]
}

// ValueDerivatives2 adds the second order block with respect to the market
// observables: Second[0][0] = d²/dF², Second[0][1] = Second[1][0] = d²/dFdK,
// Second[1][1] = d²/dK².
type ValueDerivatives2 struct {
	ValueDerivatives
	Second [2][2]float64
}
