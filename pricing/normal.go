package pricing

import (
	"math"

	"github.com/banachtech/smile/smile"
)

// NormalPriceFunction prices European options when the forward follows an
// arithmetic Brownian motion (Bachelier). Prices are undiscounted and
// volatility is absolute.
type NormalPriceFunction struct{}

// DefaultNormal is the process-wide normal pricer.
var DefaultNormal = NormalPriceFunction{}

type normalTerms struct {
	w, volRootT, d float64
}

func (NormalPriceFunction) terms(forward, vol float64, o EuropeanVanillaOption) normalTerms {
	n := normalTerms{w: o.putCall.sign(), volRootT: math.Max(vol, 0) * math.Sqrt(o.timeToExpiry)}
	if n.volRootT > 0 {
		n.d = (forward - o.strike) / n.volRootT
	} else {
		n.d = signedInf(forward - o.strike)
	}
	return n
}

func (f NormalPriceFunction) Price(forward, vol float64, o EuropeanVanillaOption) float64 {
	n := f.terms(forward, vol, o)
	if n.volRootT == 0 {
		return o.Intrinsic(forward)
	}
	return n.w*(forward-o.strike)*cdf(n.w*n.d) + n.volRootT*pdf(n.d)
}

// PriceAdjoint returns the price with its derivatives with respect to
// forward, volatility and strike (AdjointForward .. AdjointStrike).
func (f NormalPriceFunction) PriceAdjoint(forward, vol float64, o EuropeanVanillaOption) smile.ValueDerivatives {
	n := f.terms(forward, vol, o)
	delta := n.w * cdf(n.w*n.d)
	d := make([]float64, 3)
	d[AdjointForward] = delta
	d[AdjointVolatility] = math.Sqrt(o.timeToExpiry) * pdf(n.d)
	d[AdjointStrike] = -delta
	return smile.ValueDerivatives{Value: f.Price(forward, vol, o), Derivatives: d}
}

func (f NormalPriceFunction) Delta(forward, vol float64, o EuropeanVanillaOption) float64 {
	n := f.terms(forward, vol, o)
	return n.w * cdf(n.w*n.d)
}

func (f NormalPriceFunction) Gamma(forward, vol float64, o EuropeanVanillaOption) float64 {
	n := f.terms(forward, vol, o)
	return clean(div(pdf(n.d), n.volRootT))
}

func (f NormalPriceFunction) Vega(forward, vol float64, o EuropeanVanillaOption) float64 {
	n := f.terms(forward, vol, o)
	return math.Sqrt(o.timeToExpiry) * pdf(n.d)
}

// Theta is minus the derivative with respect to expiry.
func (f NormalPriceFunction) Theta(forward, vol float64, o EuropeanVanillaOption) float64 {
	n := f.terms(forward, vol, o)
	return clean(-div(math.Max(vol, 0)*pdf(n.d), 2*math.Sqrt(o.timeToExpiry)))
}
