package smile

import (
	"fmt"
	"math"
)

// InArrearsVolatilityFunction maps spot SABR parameters to effective SABR
// parameters for a rate observed over an accrual period [tau0, tau1] and paid
// at its end, such as a compounded overnight rate.
//
// Inside the accrual period the rate volatility decays as
// ((tau1-t)/(tau1-tau0))^Q. The effective parameters match the level, skew and
// curvature of the time-dependent dynamics with a constant-parameter SABR
// model over [0, tau1]. Beta is unchanged.
type InArrearsVolatilityFunction struct {
	Q float64
}

// DefaultInArrears uses a linear volatility decay (Q = 1).
var DefaultInArrears = InArrearsVolatilityFunction{Q: 1}

func NewInArrearsVolatilityFunction(q float64) (InArrearsVolatilityFunction, error) {
	if !(q >= 0) || math.IsInf(q, 1) {
		return InArrearsVolatilityFunction{}, fmt.Errorf("%w: decay exponent must be non-negative and finite, got %v", ErrInvalidArgument, q)
	}
	return InArrearsVolatilityFunction{Q: q}, nil
}

// Positions of the inputs in EffectiveSabrAdjoint derivatives.
const (
	InArrearsAlpha = iota
	InArrearsBeta
	InArrearsRho
	InArrearsNu
	InArrearsStart
	InArrearsEnd
)

// EffectiveSabr returns the effective parameters for the period starting at
// tau0 (negative once the period has started) and ending at tau1 > 0, both
// measured from the valuation time.
func (f InArrearsVolatilityFunction) EffectiveSabr(data SabrFormulaData, tau0, tau1 float64) (SabrFormulaData, error) {
	out, err := f.effective(data, tau0, tau1)
	if err != nil {
		return SabrFormulaData{}, err
	}
	return NewSabrFormulaData(out[0].v, out[1].v, out[2].v, out[3].v)
}

// EffectiveSabrAdjoint returns, for alpha, beta, rho and nu in that order, the
// effective value and its derivatives with respect to alpha, beta, rho, nu,
// tau0 and tau1 (InArrearsAlpha .. InArrearsEnd).
func (f InArrearsVolatilityFunction) EffectiveSabrAdjoint(data SabrFormulaData, tau0, tau1 float64) ([]ValueDerivatives, error) {
	out, err := f.effective(data, tau0, tau1)
	if err != nil {
		return nil, err
	}
	res := make([]ValueDerivatives, len(out))
	for i, o := range out {
		d := make([]float64, dualSize)
		copy(d, o.d[:])
		res[i] = ValueDerivatives{Value: o.v, Derivatives: d}
	}
	return res, nil
}

// integrals holds, with V the integrated variance multiplier up to tau1 and
// s(t) its running value, A0 = ∫(V-s)dt, A1 = ∫g(V-s)dt and A2 = ∫(V-s)²dt.
type integrals struct {
	v, a0, a1, a2 dual
}

func (f InArrearsVolatilityFunction) effective(data SabrFormulaData, tau0, tau1 float64) ([4]dual, error) {
	var out [4]dual
	if err := data.validate(); err != nil {
		return out, err
	}
	if !(tau1 > 0) || math.IsInf(tau1, 1) {
		return out, fmt.Errorf("%w: accrual end must be positive and finite, got %v", ErrInvalidArgument, tau1)
	}
	if !(tau0 < tau1) || math.IsInf(tau0, -1) {
		return out, fmt.Errorf("%w: accrual start %v must precede end %v", ErrInvalidArgument, tau0, tau1)
	}
	if !(f.Q >= 0) {
		return out, fmt.Errorf("%w: decay exponent must be non-negative, got %v", ErrInvalidArgument, f.Q)
	}

	alpha := variable(data.alpha, InArrearsAlpha)
	beta := variable(data.beta, InArrearsBeta)
	rho := variable(data.rho, InArrearsRho)
	nu := variable(data.nu, InArrearsNu)
	start := variable(tau0, InArrearsStart)
	end := variable(tau1, InArrearsEnd)

	var in integrals
	if tau0 > 0 {
		in = f.forwardStarting(start, end)
	} else {
		in = f.started(start, end)
	}

	vT := in.v.mul(end)
	nuHat := nu.mul(in.a2.scale(3).div(in.v.mul(vT)).sqrt())
	rhoHat := rho.mul(in.a1.scale(2).div(in.a2.mul(in.v).scale(3).sqrt()))
	h := nu.mul(nu).mul(in.a0.scale(2)).div(vT).sub(nuHat.mul(nuHat))
	alphaHat := alpha.mul(in.v.div(end).sqrt()).mul(h.mul(end).scale(0.25).exp())

	if math.Abs(rhoHat.v) > 1 {
		rhoHat = constant(math.Copysign(1, rhoHat.v))
	}
	out[AlphaIndex] = alphaHat
	out[BetaIndex] = beta
	out[RhoIndex] = rhoHat
	out[NuIndex] = nuHat
	return out, nil
}

// exponents returns 2q+1, 3q+2, 4q+3 and 2q+2.
func (f InArrearsVolatilityFunction) exponents() (c1, c2, c3, c4 float64) {
	if f.Q == 1 {
		return 3, 5, 7, 4
	}
	q := f.Q
	return 2*q + 1, 3*q + 2, 4*q + 3, 2*q + 2
}

// forwardStarting covers 0 < tau0 < tau1: full volatility until tau0, decay after.
func (f InArrearsVolatilityFunction) forwardStarting(tau0, tau1 dual) integrals {
	c1, c2, c3, c4 := f.exponents()
	length := tau1.sub(tau0)
	length2 := length.mul(length)
	// V = tau0 + (tau1-tau0)/(2q+1) and V - tau0 = (tau1-tau0)/(2q+1).
	tail := length.scale(1 / c1)
	v := tau0.add(tail)
	head := v.mul(tau0).sub(tau0.mul(tau0).scale(0.5))
	v3 := v.mul(v).mul(v)
	tail3 := tail.mul(tail).mul(tail)
	return integrals{
		v:  v,
		a0: head.add(length2.scale(1 / (c1 * c4))),
		a1: head.add(length2.scale(1 / (c1 * c2))),
		a2: v3.sub(tail3).scale(1.0 / 3).add(length2.mul(length).scale(1 / (c1 * c1 * c3))),
	}
}

// started covers tau0 <= 0 < tau1: the decay is already running.
func (f InArrearsVolatilityFunction) started(tau0, tau1 dual) integrals {
	c1, c2, c3, c4 := f.exponents()
	x := tau1.div(tau1.sub(tau0))
	var x2q, x3q, x4q dual
	if f.Q == 1 {
		x2q = x.mul(x)
		x3q = x2q.mul(x)
		x4q = x2q.mul(x2q)
	} else {
		x2q = x.pow(2 * f.Q)
		x3q = x.pow(3 * f.Q)
		x4q = x.pow(4 * f.Q)
	}
	t2 := tau1.mul(tau1)
	return integrals{
		v:  tau1.mul(x2q).scale(1 / c1),
		a0: t2.mul(x2q).scale(1 / (c1 * c4)),
		a1: t2.mul(x3q).scale(1 / (c1 * c2)),
		a2: t2.mul(tau1).mul(x4q).scale(1 / (c1 * c1 * c3)),
	}
}
