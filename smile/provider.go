package smile

// VolatilityFunctionProvider turns a smile model parameter set into implied
// Black volatilities. Implementations are immutable and safe for concurrent use.
//
// The adjoint methods return the derivatives in the DerivativeForward ..
// DerivativeNu order for four-parameter models; models with a different number
// of parameters append theirs after forward and strike in their own order.
type VolatilityFunctionProvider[T ModelData[T]] interface {
	Volatility(forward, strike, timeToExpiry float64, data T) (float64, error)
	VolatilityAdjoint(forward, strike, timeToExpiry float64, data T) (ValueDerivatives, error)
	VolatilityAdjoint2(forward, strike, timeToExpiry float64, data T) (ValueDerivatives2, error)
}
