package smile

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultRhoCutoff is the distance to rho = 1 below which the mapping
	// x(z) is replaced by its regularised expansion around rho = 1. With 1e-5
	// the two branches agree to better than 2e-3 relative at the switch; 1e-9
	// moves the switch closer to 1 at the price of cancellation in dx/drho.
	DefaultRhoCutoff = 1e-5

	// strikes below forward*cutoffMoneyness are floored.
	cutoffMoneyness = 1e-12
	// below this |z| the Taylor expansion of z/x(z) is used.
	smallZ = 1e-6
	// absolute forward/strike distance treated as at-the-money when alpha is 0.
	atmEpsilon = 1e-7
	// dvol/dalpha reported at alpha = 0 away from the money, where the true limit is infinite.
	alphaZeroSensitivity = 1e7
)

// HaganVolatilityFunction is the Hagan et al. (2002) implied Black volatility
// expansion of the SABR model, with analytic first order derivatives in
// forward, strike and the four parameters, and second order derivatives in
// forward and strike.
type HaganVolatilityFunction struct {
	// RhoCutoff selects the rho → 1 branch when 1 - rho < RhoCutoff.
	// Zero means DefaultRhoCutoff.
	RhoCutoff float64
}

// DefaultHagan is the process-wide Hagan provider.
var DefaultHagan = HaganVolatilityFunction{RhoCutoff: DefaultRhoCutoff}

var _ VolatilityFunctionProvider[SabrFormulaData] = HaganVolatilityFunction{}

func (h HaganVolatilityFunction) Volatility(forward, strike, timeToExpiry float64, data SabrFormulaData) (float64, error) {
	r, _, err := h.evaluate(forward, strike, timeToExpiry, data)
	if err != nil {
		return 0, err
	}
	return r.v, nil
}

// VolatilityAdjoint returns the volatility and its derivatives with respect to
// forward, strike, alpha, beta, rho and nu, in that order.
func (h HaganVolatilityFunction) VolatilityAdjoint(forward, strike, timeToExpiry float64, data SabrFormulaData) (ValueDerivatives, error) {
	r, k, err := h.evaluate(forward, strike, timeToExpiry, data)
	if err != nil {
		return ValueDerivatives{}, err
	}
	return firstOrder(r, forward, k), nil
}

// VolatilityAdjoint2 is VolatilityAdjoint plus the forward/strike second order block.
func (h HaganVolatilityFunction) VolatilityAdjoint2(forward, strike, timeToExpiry float64, data SabrFormulaData) (ValueDerivatives2, error) {
	r, k, err := h.evaluate(forward, strike, timeToExpiry, data)
	if err != nil {
		return ValueDerivatives2{}, err
	}
	out := ValueDerivatives2{ValueDerivatives: firstOrder(r, forward, k)}
	// r is differentiated in (ln F, ln K).
	out.Second[0][0] = (r.h[0] - r.d[0]) / (forward * forward)
	out.Second[0][1] = r.h[1] / (forward * k)
	out.Second[1][0] = out.Second[0][1]
	out.Second[1][1] = (r.h[2] - r.d[1]) / (k * k)
	return out, nil
}

// VolatilitySmile evaluates the volatility at each strike.
func (h HaganVolatilityFunction) VolatilitySmile(forward float64, strikes []float64, timeToExpiry float64, data SabrFormulaData) ([]float64, error) {
	vols := make([]float64, len(strikes))
	for i, k := range strikes {
		v, err := h.Volatility(forward, k, timeToExpiry, data)
		if err != nil {
			return nil, fmt.Errorf("strike %v: %w", k, err)
		}
		vols[i] = v
	}
	return vols, nil
}

func (h HaganVolatilityFunction) rhoCutoff() float64 {
	if h.RhoCutoff <= 0 {
		return DefaultRhoCutoff
	}
	return h.RhoCutoff
}

func firstOrder(r dual, forward, k float64) ValueDerivatives {
	d := make([]float64, dualSize)
	copy(d, r.d[:])
	d[DerivativeForward] /= forward
	d[DerivativeStrike] /= k
	return ValueDerivatives{Value: r.v, Derivatives: d}
}

// evaluate returns the volatility as a dual in (ln F, ln K, alpha, beta, rho,
// nu) together with the strike actually used after flooring.
func (h HaganVolatilityFunction) evaluate(forward, strike, t float64, data SabrFormulaData) (dual, float64, error) {
	if !(forward > 0) || math.IsInf(forward, 1) {
		return dual{}, 0, fmt.Errorf("%w: forward must be positive and finite, got %v", ErrInvalidArgument, forward)
	}
	if math.IsNaN(strike) || math.IsNaN(t) {
		return dual{}, 0, fmt.Errorf("%w: strike and expiry must be numbers", ErrInvalidArgument)
	}
	if err := data.validate(); err != nil {
		return dual{}, 0, err
	}
	k := strike
	if cutoff := forward * cutoffMoneyness; k < cutoff {
		slog.Debug("sabr strike floored", "strike", strike, "cutoff", cutoff)
		k = cutoff
	}

	if data.alpha == 0 {
		// Zero volatility everywhere; the alpha slope is finite only at the money.
		var r dual
		if math.Abs(forward-k) < atmEpsilon {
			r.d[DerivativeAlpha] = (1 + t*data.nu*data.nu*(2-3*data.rho*data.rho)/24) / math.Pow(forward, 1-data.beta)
		} else {
			r.d[DerivativeAlpha] = alphaZeroSensitivity
		}
		return r, k, nil
	}

	lnF := variable(math.Log(forward), DerivativeForward)
	lnK := variable(math.Log(k), DerivativeStrike)
	alpha := variable(data.alpha, DerivativeAlpha)
	beta := variable(data.beta, DerivativeBeta)
	rho := variable(data.rho, DerivativeRho)
	nu := variable(data.nu, DerivativeNu)

	beta1 := beta.scale(-1).shift(1)
	lnFK := lnF.sub(lnK)
	// (FK)^((1-beta)/2) is carried in log form, so beta = 1 needs no 0^0 guard.
	halfLogFK := beta1.mul(lnF.add(lnK)).scale(0.5)
	fk := halfLogFK.exp()
	invFk := halfLogFK.scale(-1).exp()

	lnBeta := beta1.mul(lnFK)
	lnBeta2 := lnBeta.mul(lnBeta)
	denominator := lnBeta2.scale(1.0 / 24).add(lnBeta2.mul(lnBeta2).scale(1.0 / 1920)).shift(1)

	z := nu.div(alpha).mul(fk).mul(lnFK)
	zx, err := h.zOverChi(z, rho)
	if err != nil {
		return dual{}, 0, err
	}

	term1 := beta1.mul(beta1).mul(alpha).mul(alpha).mul(invFk).mul(invFk).scale(1.0 / 24)
	term2 := rho.mul(beta).mul(nu).mul(alpha).mul(invFk).scale(0.25)
	term3 := nu.mul(nu).mul(rho.mul(rho).scale(-3).shift(2)).scale(1.0 / 24)
	correction := term1.add(term2).add(term3).scale(t).shift(1)

	vol := alpha.mul(invFk).div(denominator).mul(zx).mul(correction)
	if vol.v < 0 {
		return dual{}, k, nil
	}
	return vol, k, nil
}

// zOverChi returns z/x(z) where x(z) = ln((sqrt(1-2 rho z+z²)+z-rho)/(1-rho)).
func (h HaganVolatilityFunction) zOverChi(z, rho dual) (dual, error) {
	zv, r := z.v, rho.v
	var f, fz, fzz, fr float64
	switch {
	case math.Abs(zv) < smallZ:
		f = 1 - r*zv/2 + (2-3*r*r)*zv*zv/12
		fz = -r/2 + (2-3*r*r)*zv/6
		fzz = (2 - 3*r*r) / 6
		fr = -zv/2 - r*zv*zv/2
	case 1-r < h.rhoCutoff():
		if zv >= 1 {
			return dual{}, fmt.Errorf("%w: no limit for rho=%v with z=%v >= 1", ErrDomain, r, zv)
		}
		// First order expansion of x(z) in 1-rho.
		delta := 1 - r
		om := 1 - zv
		chi := -math.Log(om) - delta*zv*zv/(2*om*om)
		chiZ := 1/om - delta*zv/(om*om*om)
		chiZZ := 1/(om*om) - delta*(1+2*zv)/(om*om*om*om)
		chiR := zv * zv / (2 * om * om)
		f, fz, fzz, fr = ratio(zv, chi, chiZ, chiZZ, chiR)
	default:
		sqrtA := math.Sqrt(1 - 2*r*zv + zv*zv)
		var chi, chiR float64
		if zv >= r {
			num := sqrtA + zv - r
			chi = math.Log(num / (1 - r))
			chiR = (-zv/sqrtA-1)/num + 1/(1-r)
		} else {
			if r == -1 {
				// x(z) = -inf for z < -1: the volatility vanishes.
				return dual{}, nil
			}
			// sqrtA+z-rho rewritten as (1-rho²)/(sqrtA-z+rho) to avoid cancellation.
			den := sqrtA - zv + r
			chi = math.Log((1 + r) / den)
			chiR = 1/(1+r) - (1-zv/sqrtA)/den
		}
		chiZ := 1 / sqrtA
		chiZZ := -(zv - r) / (sqrtA * sqrtA * sqrtA)
		f, fz, fzz, fr = ratio(zv, chi, chiZ, chiZZ, chiR)
	}
	out := z.compose(f, fz, fzz)
	out.d[DerivativeRho] += fr
	return out, nil
}

// ratio differentiates z/chi given chi and its partials.
func ratio(z, chi, chiZ, chiZZ, chiR float64) (f, fz, fzz, fr float64) {
	c2 := chi * chi
	f = z / chi
	fz = 1/chi - z*chiZ/c2
	fzz = -2*chiZ/c2 - z*chiZZ/c2 + 2*z*chiZ*chiZ/(c2*chi)
	fr = -z * chiR / c2
	return
}
