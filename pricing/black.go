package pricing

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/banachtech/smile/smile"
)

// Positions of BlackPriceAdjoint and NormalPriceFunction.PriceAdjoint derivatives.
const (
	AdjointForward = iota
	AdjointVolatility
	AdjointStrike
)

// black is the undiscounted Black model: a zero-rate, zero-carry
// Black-Scholes on the forward. Negative forward or volatility count as zero.
func black(forward, vol float64, o EuropeanVanillaOption) BlackScholes {
	return BlackScholes{
		Spot:   math.Max(forward, 0),
		Strike: math.Max(o.strike, 0),
		Expiry: o.timeToExpiry,
		Vol:    math.Max(vol, 0),
	}
}

// BlackPrice is the undiscounted Black price of the option on forward.
func BlackPrice(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Price(o.putCall)
}

// BlackPriceAdjoint returns the price with its derivatives with respect to
// forward, volatility and strike (AdjointForward .. AdjointStrike).
func BlackPriceAdjoint(forward, vol float64, o EuropeanVanillaOption) smile.ValueDerivatives {
	b := black(forward, vol, o)
	d := make([]float64, 3)
	d[AdjointForward] = b.Delta(o.putCall)
	d[AdjointVolatility] = b.Vega()
	d[AdjointStrike] = b.DualDelta(o.putCall)
	return smile.ValueDerivatives{Value: b.Price(o.putCall), Derivatives: d}
}

func BlackDelta(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Delta(o.putCall)
}

func BlackDualDelta(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).DualDelta(o.putCall)
}

func BlackGamma(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Gamma()
}

func BlackDualGamma(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).DualGamma()
}

func BlackVega(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Vega()
}

func BlackVanna(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Vanna()
}

func BlackVolga(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Vomma()
}

// BlackTheta is minus the derivative of the undiscounted price with respect to expiry.
func BlackTheta(forward, vol float64, o EuropeanVanillaOption) float64 {
	return black(forward, vol, o).Theta(o.putCall)
}

const (
	impliedVolTolerance  = 1e-12
	impliedVolIterations = 100
	impliedVolCeiling    = 1e4
)

// BlackImpliedVolatility inverts BlackPrice for a positive forward and strike.
// It runs Newton steps on vega and falls back to bisection whenever a step
// leaves the current bracket.
func BlackImpliedVolatility(price, forward float64, o EuropeanVanillaOption) (float64, error) {
	if !(forward > 0) || math.IsInf(forward, 1) || !(o.strike > 0) {
		return 0, fmt.Errorf("%w: forward and strike must be positive and finite", ErrInvalidArgument)
	}
	intrinsic := o.Intrinsic(forward)
	upper := forward
	if !o.IsCall() {
		upper = o.strike
	}
	tol := impliedVolTolerance * math.Max(1, price)
	if math.IsNaN(price) || price < intrinsic-tol || price >= upper {
		return 0, fmt.Errorf("%w: price %v outside no-arbitrage bounds [%v, %v)", ErrInvalidArgument, price, intrinsic, upper)
	}
	if price-intrinsic <= tol {
		return 0, nil
	}
	if o.timeToExpiry == 0 {
		return 0, fmt.Errorf("%w: price %v above intrinsic %v at expiry", ErrInvalidArgument, price, intrinsic)
	}

	lo, hi := 0.0, 1.0
	for BlackPrice(forward, hi, o) < price {
		lo = hi
		hi *= 2
		if hi > impliedVolCeiling {
			return 0, fmt.Errorf("%w: implied volatility above %v", ErrNoConvergence, impliedVolCeiling)
		}
	}

	vol := 0.5 * (lo + hi)
	for i := 0; i < impliedVolIterations; i++ {
		adj := BlackPriceAdjoint(forward, vol, o)
		diff := adj.Value - price
		if diff == 0 {
			return vol, nil
		}
		if diff > 0 {
			hi = vol
		} else {
			lo = vol
		}
		next := vol - diff/adj.Derivative(AdjointVolatility)
		if !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-vol) <= impliedVolTolerance*vol || hi-lo <= impliedVolTolerance*vol {
			return next, nil
		}
		vol = next
	}
	slog.Debug("implied volatility search exhausted", "price", price, "forward", forward, "strike", o.strike, "lo", lo, "hi", hi)
	return 0, fmt.Errorf("%w: implied volatility after %d iterations", ErrNoConvergence, impliedVolIterations)
}

// SabrPrice prices the option with the Black formula at the volatility the
// SABR provider gives for its strike and expiry.
func SabrPrice(forward float64, o EuropeanVanillaOption, data smile.SabrFormulaData, provider smile.VolatilityFunctionProvider[smile.SabrFormulaData]) (float64, error) {
	vol, err := provider.Volatility(forward, o.strike, o.timeToExpiry, data)
	if err != nil {
		return 0, err
	}
	return BlackPrice(forward, vol, o), nil
}
