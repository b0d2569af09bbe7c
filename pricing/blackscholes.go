package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholes is a European option on a spot asset with continuously
// compounded rate and cost of carry. Carry = Rate gives the classic
// non-dividend stock, Carry = Rate - q a dividend yield q, Carry = 0 the Black
// model on a futures price.
type BlackScholes struct {
	Spot   float64
	Strike float64
	Expiry float64
	Vol    float64
	Rate   float64
	Carry  float64
}

// NewBlackScholes accepts non-negative spot, strike, expiry and volatility
// (infinity included) and any rate and carry that is not NaN.
func NewBlackScholes(spot, strike, expiry, vol, rate, carry float64) (BlackScholes, error) {
	for _, p := range []struct {
		name string
		v    float64
	}{{"spot", spot}, {"strike", strike}, {"expiry", expiry}, {"volatility", vol}} {
		if !(p.v >= 0) {
			return BlackScholes{}, fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidArgument, p.name, p.v)
		}
	}
	if math.IsNaN(rate) || math.IsNaN(carry) {
		return BlackScholes{}, fmt.Errorf("%w: rate and carry must be numbers", ErrInvalidArgument)
	}
	return BlackScholes{Spot: spot, Strike: strike, Expiry: expiry, Vol: vol, Rate: rate, Carry: carry}, nil
}

// bsTerms holds the shared intermediate quantities of every formula.
type bsTerms struct {
	s, k, t, vol, r, b float64
	carry              float64 // e^{(b-r)T}
	discount           float64 // e^{-rT}
	sqrtT, volRootT    float64
	d1, d2             float64
}

func (o BlackScholes) terms() bsTerms {
	m := bsTerms{s: o.Spot, k: o.Strike, t: o.Expiry, vol: o.Vol, r: o.Rate, b: o.Carry}
	rt := mul(m.r, m.t)
	bt := mul(m.b, m.t)
	m.carry = math.Exp(sub(bt, rt))
	m.discount = math.Exp(-rt)
	m.sqrtT = math.Sqrt(m.t)
	m.volRootT = mul(m.vol, m.sqrtT)

	x := add(logMoneyness(m.s, m.k), bt)
	switch {
	case m.volRootT == 0:
		m.d1 = signedInf(x)
		m.d2 = m.d1
	case math.IsInf(m.volRootT, 1):
		m.d1 = math.Inf(1)
		m.d2 = math.Inf(-1)
	default:
		m.d1 = x/m.volRootT + m.volRootT/2
		m.d2 = m.d1 - m.volRootT
	}
	return m
}

func cdf(x float64) float64 { return distuv.UnitNormal.CDF(x) }
func pdf(x float64) float64 { return distuv.UnitNormal.Prob(x) }

func (o BlackScholes) Price(pc PutCall) float64 {
	m := o.terms()
	w := pc.sign()
	forwardLeg := prod(m.s, m.carry, cdf(w*m.d1))
	strikeLeg := prod(m.k, m.discount, cdf(w*m.d2))
	return math.Max(clean(w*sub(forwardLeg, strikeLeg)), 0)
}

// Delta is the derivative with respect to spot.
func (o BlackScholes) Delta(pc PutCall) float64 {
	m := o.terms()
	w := pc.sign()
	return clean(w * mul(m.carry, cdf(w*m.d1)))
}

// DualDelta is the derivative with respect to strike.
func (o BlackScholes) DualDelta(pc PutCall) float64 {
	m := o.terms()
	w := pc.sign()
	return clean(-w * mul(m.discount, cdf(w*m.d2)))
}

// Gamma is the second derivative with respect to spot.
func (o BlackScholes) Gamma() float64 {
	m := o.terms()
	return clean(div(mul(m.carry, pdf(m.d1)), mul(m.s, m.volRootT)))
}

// DualGamma is the second derivative with respect to strike.
func (o BlackScholes) DualGamma() float64 {
	m := o.terms()
	return clean(div(mul(m.discount, pdf(m.d2)), mul(m.k, m.volRootT)))
}

// CrossGamma is the derivative with respect to spot and strike.
func (o BlackScholes) CrossGamma() float64 {
	m := o.terms()
	return clean(-div(mul(m.carry, pdf(m.d1)), mul(m.k, m.volRootT)))
}

// Theta is minus the derivative with respect to expiry.
func (o BlackScholes) Theta(pc PutCall) float64 {
	m := o.terms()
	w := pc.sign()
	decay := -div(prod(m.s, m.carry, pdf(m.d1), m.vol), 2*m.sqrtT)
	carryTerm := -w * prod(sub(m.b, m.r), m.s, m.carry, cdf(w*m.d1))
	rateTerm := -w * prod(m.r, m.k, m.discount, cdf(w*m.d2))
	return clean(sum(decay, carryTerm, rateTerm))
}

// Vega is the derivative with respect to volatility.
func (o BlackScholes) Vega() float64 {
	m := o.terms()
	return clean(prod(m.s, m.carry, pdf(m.d1), m.sqrtT))
}

// Vanna is the derivative of delta with respect to volatility.
func (o BlackScholes) Vanna() float64 {
	m := o.terms()
	return clean(-prod(m.carry, pdf(m.d1), div(m.d2, m.vol)))
}

// DualVanna is the derivative of dual delta with respect to volatility.
func (o BlackScholes) DualVanna() float64 {
	m := o.terms()
	return clean(prod(m.discount, pdf(m.d2), div(m.d1, m.vol)))
}

// Vomma is the second derivative with respect to volatility.
func (o BlackScholes) Vomma() float64 {
	m := o.terms()
	vega := prod(m.s, m.carry, pdf(m.d1), m.sqrtT)
	return clean(mul(vega, div(mul(m.d1, m.d2), m.vol)))
}

// Rho is the derivative with respect to the rate when the carry moves with
// it, i.e. a fixed dividend yield.
func (o BlackScholes) Rho(pc PutCall) float64 {
	m := o.terms()
	w := pc.sign()
	return clean(w * prod(m.k, m.t, m.discount, cdf(w*m.d2)))
}

// CarryRho is the derivative with respect to the cost of carry alone.
func (o BlackScholes) CarryRho(pc PutCall) float64 {
	m := o.terms()
	w := pc.sign()
	return clean(w * prod(m.s, m.t, m.carry, cdf(w*m.d1)))
}
