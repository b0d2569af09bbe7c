package credit

import (
	"fmt"
	"log/slog"
	"math"
)

// Calibrator bootstraps a credit curve with one knot per CDS maturity.
type Calibrator struct {
	Pricer Pricer
}

// FromParSpreads finds the curve on which every CDS prices at par at its
// quoted spread.
func (c Calibrator) FromParSpreads(cdss []CDS, spreads []float64, yc YieldCurve) (CreditCurve, error) {
	if len(spreads) != len(cdss) {
		return CreditCurve{}, fmt.Errorf("%w: %d contracts and %d spreads", ErrInvalidArgument, len(cdss), len(spreads))
	}
	return c.FromPointsUpfront(cdss, spreads, make([]float64, len(cdss)), yc)
}

// FromPointsUpfront finds the curve on which every CDS paying coupons[i] has a
// clean PV of pointsUpfront[i]. Maturities must be strictly increasing.
func (c Calibrator) FromPointsUpfront(cdss []CDS, coupons, pointsUpfront []float64, yc YieldCurve) (CreditCurve, error) {
	n := len(cdss)
	if n == 0 || len(coupons) != n || len(pointsUpfront) != n {
		return CreditCurve{}, fmt.Errorf("%w: %d contracts, %d coupons and %d upfront quotes", ErrInvalidArgument, n, len(coupons), len(pointsUpfront))
	}
	times := make([]float64, n)
	for i, cds := range cdss {
		times[i] = cds.Maturity()
		if math.IsNaN(coupons[i]) || math.IsNaN(pointsUpfront[i]) {
			return CreditCurve{}, fmt.Errorf("%w: quote %d is NaN", ErrInvalidArgument, i)
		}
	}
	cc, err := NewCreditCurve(times, make([]float64, n))
	if err != nil {
		return CreditCurve{}, err
	}

	prevT, prevRT := 0.0, 0.0
	for i, cds := range cdss {
		t := times[i]
		trial := func(h float64) CreditCurve {
			out, _ := cc.WithRate(i, (prevRT+h*(t-prevT))/t)
			return out
		}
		f := func(h float64) float64 {
			return c.Pricer.PV(cds, yc, trial(h), coupons[i], Clean) - pointsUpfront[i]
		}
		guess := (math.Abs(coupons[i]) + math.Abs(pointsUpfront[i])/t) / cds.LGD()
		h, err := increasingRoot(f, 0, guess)
		if err != nil {
			return CreditCurve{}, fmt.Errorf("knot %d (maturity %v): %w", i, t, err)
		}
		cc = trial(h)
		slog.Debug("credit curve knot calibrated", "knot", i, "maturity", t, "hazard", h)
		prevT, prevRT = t, cc.RT(t)
	}
	return cc, nil
}

// QuotedSpreadToPUF converts a quoted spread into points upfront for a
// contract paying coupon, using the flat hazard curve that prices the contract
// at par at the quoted spread.
func QuotedSpreadToPUF(cds CDS, coupon float64, yc YieldCurve, quotedSpread float64) (float64, error) {
	var c Calibrator
	cc, err := c.FromParSpreads([]CDS{cds}, []float64{quotedSpread}, yc)
	if err != nil {
		return 0, err
	}
	return c.Pricer.PointsUpfront(cds, yc, cc, coupon), nil
}

// PUFToQuotedSpread is the inverse of QuotedSpreadToPUF.
func PUFToQuotedSpread(cds CDS, coupon float64, yc YieldCurve, puf float64) (float64, error) {
	var c Calibrator
	cc, err := c.FromPointsUpfront([]CDS{cds}, []float64{coupon}, []float64{puf}, yc)
	if err != nil {
		return 0, err
	}
	return c.Pricer.ParSpread(cds, yc, cc)
}
