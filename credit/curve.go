package credit

import (
	"fmt"
	"math"
	"sort"
)

// ISDACurve is a curve of continuously compounded zero rates on knots t_i.
// It stores r_i·t_i and interpolates linearly in r·t, so forward rates are flat
// between knots. Outside the knots the zero rate is flat.
type ISDACurve struct {
	t  []float64
	rt []float64
}

// NewISDACurve needs strictly increasing positive times and one finite rate per
// time.
func NewISDACurve(times, rates []float64) (ISDACurve, error) {
	if len(times) == 0 || len(times) != len(rates) {
		return ISDACurve{}, fmt.Errorf("%w: %d times and %d rates", ErrInvalidArgument, len(times), len(rates))
	}
	c := ISDACurve{t: make([]float64, len(times)), rt: make([]float64, len(times))}
	for i, t := range times {
		if !(t > 0) || math.IsInf(t, 0) || (i > 0 && !(t > times[i-1])) {
			return ISDACurve{}, fmt.Errorf("%w: knot times must be positive and strictly increasing, got %v at %d", ErrInvalidArgument, t, i)
		}
		if math.IsNaN(rates[i]) || math.IsInf(rates[i], 0) {
			return ISDACurve{}, fmt.Errorf("%w: rate %v at knot %d", ErrInvalidArgument, rates[i], i)
		}
		c.t[i] = t
		c.rt[i] = rates[i] * t
	}
	return c, nil
}

func (c ISDACurve) NumberOfKnots() int { return len(c.t) }

func (c ISDACurve) Knots() []float64 { return append([]float64(nil), c.t...) }

// Rates returns the zero rate at every knot.
func (c ISDACurve) Rates() []float64 {
	r := make([]float64, len(c.t))
	for i := range r {
		r[i] = c.rt[i] / c.t[i]
	}
	return r
}

// RT is the integrated rate r(t)·t.
func (c ISDACurve) RT(t float64) float64 {
	n := len(c.t)
	if t <= c.t[0] {
		return c.rt[0] / c.t[0] * t
	}
	if t >= c.t[n-1] {
		return c.rt[n-1] / c.t[n-1] * t
	}
	i := sort.SearchFloat64s(c.t, t)
	if c.t[i] == t {
		return c.rt[i]
	}
	w := (t - c.t[i-1]) / (c.t[i] - c.t[i-1])
	return (1-w)*c.rt[i-1] + w*c.rt[i]
}

func (c ISDACurve) ZeroRate(t float64) float64 {
	if t <= 0 {
		return c.rt[0] / c.t[0]
	}
	return c.RT(t) / t
}

// ForwardRate is the instantaneous forward d(RT)/dt, right-continuous at knots.
func (c ISDACurve) ForwardRate(t float64) float64 {
	n := len(c.t)
	if t < c.t[0] {
		return c.rt[0] / c.t[0]
	}
	if t >= c.t[n-1] {
		return c.rt[n-1] / c.t[n-1]
	}
	i := sort.Search(n, func(j int) bool { return c.t[j] > t })
	return (c.rt[i] - c.rt[i-1]) / (c.t[i] - c.t[i-1])
}

func (c ISDACurve) DiscountFactor(t float64) float64 { return math.Exp(-c.RT(t)) }

// WithRate returns a copy with the zero rate at knot i replaced.
func (c ISDACurve) WithRate(i int, rate float64) (ISDACurve, error) {
	if i < 0 || i >= len(c.t) {
		return ISDACurve{}, fmt.Errorf("%w: knot %d outside [0,%d]", ErrInvalidArgument, i, len(c.t)-1)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ISDACurve{}, fmt.Errorf("%w: rate %v", ErrInvalidArgument, rate)
	}
	out := ISDACurve{t: c.t, rt: append([]float64(nil), c.rt...)}
	out.rt[i] = rate * c.t[i]
	return out, nil
}

// Scaled multiplies every rate by m.
func (c ISDACurve) Scaled(m float64) ISDACurve {
	out := ISDACurve{t: c.t, rt: make([]float64, len(c.rt))}
	for i, v := range c.rt {
		out.rt[i] = m * v
	}
	return out
}

// CreditCurve reads an ISDACurve as integrated hazard rates.
type CreditCurve struct {
	ISDACurve
}

// NewCreditCurve builds a credit curve from zero hazard rates.
func NewCreditCurve(times, hazardRates []float64) (CreditCurve, error) {
	c, err := NewISDACurve(times, hazardRates)
	return CreditCurve{c}, err
}

// NewFlatCreditCurve has the same hazard rate at every horizon.
func NewFlatCreditCurve(hazardRate float64) (CreditCurve, error) {
	return NewCreditCurve([]float64{1}, []float64{hazardRate})
}

func (c CreditCurve) SurvivalProbability(t float64) float64 { return c.DiscountFactor(t) }
func (c CreditCurve) HazardRate(t float64) float64          { return c.ForwardRate(t) }

func (c CreditCurve) WithRate(i int, rate float64) (CreditCurve, error) {
	out, err := c.ISDACurve.WithRate(i, rate)
	return CreditCurve{out}, err
}

func (c CreditCurve) Scaled(m float64) CreditCurve { return CreditCurve{c.ISDACurve.Scaled(m)} }

// YieldCurve reads an ISDACurve as discounting zero rates.
type YieldCurve struct {
	ISDACurve
}

func NewYieldCurve(times, rates []float64) (YieldCurve, error) {
	c, err := NewISDACurve(times, rates)
	return YieldCurve{c}, err
}

func NewFlatYieldCurve(rate float64) (YieldCurve, error) {
	return NewYieldCurve([]float64{1}, []float64{rate})
}

// knotsBetween returns a, the knots of every curve strictly inside (a, b), and b.
func knotsBetween(a, b float64, curves ...ISDACurve) []float64 {
	out := []float64{a}
	for _, c := range curves {
		for _, t := range c.t {
			if t > a && t < b {
				out = append(out, t)
			}
		}
	}
	sort.Float64s(out)
	uniq := out[:1]
	for _, t := range out[1:] {
		if t != uniq[len(uniq)-1] {
			uniq = append(uniq, t)
		}
	}
	if b > uniq[len(uniq)-1] {
		uniq = append(uniq, b)
	}
	return uniq
}
