package credit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Constituent is one name in a CDS index.
type Constituent struct {
	Name      string
	Weight    float64
	Curve     CreditCurve
	Recovery  float64
	Defaulted bool
}

// IndexCalculator computes intrinsic index values from the constituents'
// credit curves. Values are per unit of original index notional; defaulted
// names contribute nothing.
type IndexCalculator struct {
	constituents []Constituent
	Pricer       Pricer
}

// NewIndexCalculator normalises the weights to sum to one.
func NewIndexCalculator(constituents []Constituent) (*IndexCalculator, error) {
	if len(constituents) == 0 {
		return nil, fmt.Errorf("%w: empty index", ErrInvalidArgument)
	}
	weights := make([]float64, len(constituents))
	for i, c := range constituents {
		if !(c.Weight > 0) || math.IsInf(c.Weight, 0) {
			return nil, fmt.Errorf("%w: weight %v for %q", ErrInvalidArgument, c.Weight, c.Name)
		}
		if !(c.Recovery >= 0 && c.Recovery < 1) {
			return nil, fmt.Errorf("%w: recovery %v for %q", ErrInvalidArgument, c.Recovery, c.Name)
		}
		if !c.Defaulted && c.Curve.NumberOfKnots() == 0 {
			return nil, fmt.Errorf("%w: no credit curve for %q", ErrInvalidArgument, c.Name)
		}
		weights[i] = c.Weight
	}
	total := floats.Sum(weights)
	out := make([]Constituent, len(constituents))
	for i, c := range constituents {
		c.Weight /= total
		out[i] = c
	}
	return &IndexCalculator{constituents: out}, nil
}

func (ic *IndexCalculator) Constituents() []Constituent {
	return append([]Constituent(nil), ic.constituents...)
}

// IndexFactor is the weight of the names that have not defaulted.
func (ic *IndexCalculator) IndexFactor() float64 {
	f := 0.0
	for _, c := range ic.constituents {
		if !c.Defaulted {
			f += c.Weight
		}
	}
	return f
}

// WithDefault returns a calculator in which the named constituent has defaulted.
func (ic *IndexCalculator) WithDefault(name string) (*IndexCalculator, error) {
	out := &IndexCalculator{constituents: ic.Constituents(), Pricer: ic.Pricer}
	for i := range out.constituents {
		if out.constituents[i].Name == name {
			out.constituents[i].Defaulted = true
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: no constituent %q", ErrInvalidArgument, name)
}

func (ic *IndexCalculator) sum(cds CDS, leg func(cds CDS, cc CreditCurve) float64) (float64, error) {
	total := 0.0
	for _, c := range ic.constituents {
		if c.Defaulted {
			continue
		}
		single, err := cds.WithRecovery(c.Recovery)
		if err != nil {
			return 0, err
		}
		total += c.Weight * leg(single, c.Curve)
	}
	return total, nil
}

func (ic *IndexCalculator) ProtectionLeg(cds CDS, yc YieldCurve) (float64, error) {
	return ic.sum(cds, func(single CDS, cc CreditCurve) float64 {
		return ic.Pricer.ProtectionLeg(single, yc, cc)
	})
}

func (ic *IndexCalculator) Annuity(cds CDS, yc YieldCurve, pt PriceType) (float64, error) {
	return ic.sum(cds, func(single CDS, cc CreditCurve) float64 {
		return ic.Pricer.Annuity(single, yc, cc, pt)
	})
}

// ParSpread is the intrinsic index spread.
func (ic *IndexCalculator) ParSpread(cds CDS, yc YieldCurve) (float64, error) {
	prot, err := ic.ProtectionLeg(cds, yc)
	if err != nil {
		return 0, err
	}
	a, err := ic.Annuity(cds, yc, Clean)
	if err != nil {
		return 0, err
	}
	if !(a > 0) {
		return 0, fmt.Errorf("%w: index annuity %v is not positive", ErrInvalidArgument, a)
	}
	return prot / a, nil
}

// PV is the intrinsic clean value to the protection buyer paying coupon.
func (ic *IndexCalculator) PV(cds CDS, yc YieldCurve, coupon float64) (float64, error) {
	return ic.sum(cds, func(single CDS, cc CreditCurve) float64 {
		return ic.Pricer.PV(single, yc, cc, coupon, Clean)
	})
}

// AdjustCurves scales every hazard rate by a common multiplier so that the
// intrinsic PV matches an index quote of indexPUF points upfront on the
// current notional. It returns the adjusted calculator and the multiplier.
func (ic *IndexCalculator) AdjustCurves(cds CDS, yc YieldCurve, coupon, indexPUF float64) (*IndexCalculator, float64, error) {
	target := indexPUF * ic.IndexFactor()
	scaled := func(m float64) *IndexCalculator {
		out := &IndexCalculator{constituents: ic.Constituents(), Pricer: ic.Pricer}
		for i := range out.constituents {
			if !out.constituents[i].Defaulted {
				out.constituents[i].Curve = out.constituents[i].Curve.Scaled(m)
			}
		}
		return out
	}
	var failed error
	m, err := increasingRoot(func(m float64) float64 {
		pv, err := scaled(m).PV(cds, yc, coupon)
		if err != nil && failed == nil {
			failed = err
		}
		return pv - target
	}, 0, 1)
	if failed != nil {
		return nil, 0, failed
	}
	if err != nil {
		return nil, 0, fmt.Errorf("index adjustment: %w", err)
	}
	return scaled(m), m, nil
}
