package credit

import (
	"fmt"
	"math"
)

// PriceType selects whether premium accrued before the trade date is included.
type PriceType int

const (
	Clean PriceType = iota
	Dirty
)

// Pricer values CDS legs by integrating exactly over the merged knots of the
// yield and credit curves, where both have flat forwards.
type Pricer struct{}

// ProtectionLeg is (1-R)·∫P(t)dQ(t) over the protection period, valued at the
// cash settle time.
func (Pricer) ProtectionLeg(cds CDS, yc YieldCurve, cc CreditCurve) float64 {
	knots := knotsBetween(cds.protectionStart, cds.protectionEnd, yc.ISDACurve, cc.ISDACurve)
	ht0, rt0 := cc.RT(knots[0]), yc.RT(knots[0])
	b0 := math.Exp(-ht0 - rt0)
	pv := 0.0
	for _, t := range knots[1:] {
		ht1, rt1 := cc.RT(t), yc.RT(t)
		dht, drt := ht1-ht0, rt1-rt0
		pv += b0 * dht * epsilon(dht+drt)
		b0 = math.Exp(-ht1 - rt1)
		ht0, rt0 = ht1, rt1
	}
	return cds.LGD() * pv / yc.DiscountFactor(cds.cashSettle)
}

// Annuity is the risky PV01 of the premium leg for a unit spread, including
// premium accrued up to default when the contract pays it.
func (p Pricer) Annuity(cds CDS, yc YieldCurve, cc CreditCurve, pt PriceType) float64 {
	pv := 0.0
	for _, per := range cds.periods {
		if per.AccEnd <= cds.protectionStart {
			continue
		}
		pv += per.YearFrac * yc.DiscountFactor(per.PaymentTime) * cc.SurvivalProbability(per.AccEnd)
		if cds.payAccruedOnDefault {
			pv += accrualOnDefault(per, math.Max(per.AccStart, cds.protectionStart), yc, cc)
		}
	}
	pv /= yc.DiscountFactor(cds.cashSettle)
	if pt == Clean {
		pv -= cds.accrued
	}
	return pv
}

func accrualOnDefault(per CouponPeriod, start float64, yc YieldCurve, cc CreditCurve) float64 {
	knots := knotsBetween(start, per.AccEnd, yc.ISDACurve, cc.ISDACurve)
	ht0, rt0 := cc.RT(knots[0]), yc.RT(knots[0])
	b0 := math.Exp(-ht0 - rt0)
	pv := 0.0
	for i, t := range knots[1:] {
		a := knots[i]
		ht1, rt1 := cc.RT(t), yc.RT(t)
		dht, drt := ht1-ht0, rt1-rt0
		x := dht + drt
		pv += b0 * dht * ((a-per.AccStart)*epsilon(x) + (t-a)*epsilonP(x))
		b0 = math.Exp(-ht1 - rt1)
		ht0, rt0 = ht1, rt1
	}
	return pv * accrualRatio
}

// ParSpread is the coupon that makes the clean PV zero.
func (p Pricer) ParSpread(cds CDS, yc YieldCurve, cc CreditCurve) (float64, error) {
	a := p.Annuity(cds, yc, cc, Clean)
	if !(a > 0) {
		return 0, fmt.Errorf("%w: risky annuity %v is not positive", ErrInvalidArgument, a)
	}
	return p.ProtectionLeg(cds, yc, cc) / a, nil
}

// PV is the value to the protection buyer paying coupon.
func (p Pricer) PV(cds CDS, yc YieldCurve, cc CreditCurve, coupon float64, pt PriceType) float64 {
	return p.ProtectionLeg(cds, yc, cc) - coupon*p.Annuity(cds, yc, cc, pt)
}

// PointsUpfront is the clean PV as a fraction of notional.
func (p Pricer) PointsUpfront(cds CDS, yc YieldCurve, cc CreditCurve, coupon float64) float64 {
	return p.PV(cds, yc, cc, coupon, Clean)
}

const taylorCutoff = 1e-2

// epsilon is (1-exp(-x))/x.
func epsilon(x float64) float64 {
	if math.Abs(x) > taylorCutoff {
		return -math.Expm1(-x) / x
	}
	// sum of (-x)^(n-1)/n! for n ≥ 1
	sum, term := 0.0, 1.0
	for n := 1; n <= 8; n++ {
		term /= float64(n)
		sum += term
		term *= -x
	}
	return sum
}

// epsilonP is (1-exp(-x)(1+x))/x².
func epsilonP(x float64) float64 {
	if math.Abs(x) > taylorCutoff {
		return (-math.Expm1(-x) - x*math.Exp(-x)) / (x * x)
	}
	// sum of (-1)^n (n-1) x^(n-2)/n! for n ≥ 2
	sum, pow, fact := 0.0, 1.0, 2.0
	for n := 2; n <= 9; n++ {
		if n > 2 {
			fact *= float64(n)
			pow *= -x
		}
		sum += float64(n-1) * pow / fact
	}
	return sum
}
