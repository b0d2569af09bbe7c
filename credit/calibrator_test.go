package credit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var calibrationMaturities = []float64{1, 3, 5, 7, 10}

func testYieldCurve(t *testing.T) YieldCurve {
	yc, err := NewYieldCurve([]float64{0.5, 2, 5, 10, 30}, []float64{0.02, 0.022, 0.025, 0.03, 0.031})
	require.NoError(t, err)
	return yc
}

func testCreditCurve(t *testing.T) CreditCurve {
	cc, err := NewCreditCurve(calibrationMaturities, []float64{0.01, 0.015, 0.02, 0.022, 0.025})
	require.NoError(t, err)
	return cc
}

func calibrationContracts(t *testing.T) []CDS {
	out := make([]CDS, len(calibrationMaturities))
	for i, m := range calibrationMaturities {
		out[i] = mustCDS(t, m, 0.4, true)
	}
	return out
}

func TestCalibratorFromParSpreads(t *testing.T) {
	yc, truth := testYieldCurve(t), testCreditCurve(t)
	cdss := calibrationContracts(t)
	spreads := make([]float64, len(cdss))
	for i, cds := range cdss {
		s, err := Pricer{}.ParSpread(cds, yc, truth)
		require.NoError(t, err)
		spreads[i] = s
	}

	cc, err := Calibrator{}.FromParSpreads(cdss, spreads, yc)
	require.NoError(t, err)
	require.Equal(t, calibrationMaturities, cc.Knots())
	want := truth.Rates()
	for i, r := range cc.Rates() {
		require.InDelta(t, want[i], r, 1e-10, "knot %d", i)
	}
	for i, cds := range cdss {
		require.InDelta(t, 0, Pricer{}.PV(cds, yc, cc, spreads[i], Clean), 1e-13)
	}
}

func TestCalibratorFromPointsUpfront(t *testing.T) {
	yc, truth := testYieldCurve(t), testCreditCurve(t)
	cdss := calibrationContracts(t)
	coupons := []float64{0.01, 0.01, 0.01, 0.05, 0.05}
	pufs := make([]float64, len(cdss))
	for i, cds := range cdss {
		pufs[i] = Pricer{}.PointsUpfront(cds, yc, truth, coupons[i])
	}
	require.Less(t, pufs[4], 0.0)

	cc, err := Calibrator{}.FromPointsUpfront(cdss, coupons, pufs, yc)
	require.NoError(t, err)
	want := truth.Rates()
	for i, r := range cc.Rates() {
		require.InDelta(t, want[i], r, 1e-10, "knot %d", i)
	}
}

func TestCalibratorErrors(t *testing.T) {
	yc := testYieldCurve(t)
	cdss := calibrationContracts(t)

	_, err := Calibrator{}.FromParSpreads(cdss, []float64{0.01}, yc)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Calibrator{}.FromParSpreads(nil, nil, yc)
	require.ErrorIs(t, err, ErrInvalidArgument)

	unsorted := []CDS{cdss[1], cdss[0]}
	_, err = Calibrator{}.FromParSpreads(unsorted, []float64{0.01, 0.01}, yc)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// More than the whole loss given default upfront cannot be reached.
	_, err = Calibrator{}.FromPointsUpfront(cdss[:1], []float64{0.01}, []float64{0.7}, yc)
	require.ErrorIs(t, err, ErrNoConvergence)
	// Below the value of the riskless premium leg.
	_, err = Calibrator{}.FromPointsUpfront(cdss[:1], []float64{0.01}, []float64{-0.5}, yc)
	require.ErrorIs(t, err, ErrNoConvergence)
}

func TestQuoteConversions(t *testing.T) {
	yc := testYieldCurve(t)
	cds := mustCDS(t, 4.9, 0.4, true)

	atPar, err := QuotedSpreadToPUF(cds, 0.01, yc, 0.01)
	require.NoError(t, err)
	require.InDelta(t, 0, atPar, 1e-13)

	for _, spread := range []float64{0.002, 0.035, 0.2} {
		puf, err := QuotedSpreadToPUF(cds, 0.01, yc, spread)
		require.NoError(t, err)
		require.Equal(t, spread > 0.01, puf > 0, "spread %v", spread)
		back, err := PUFToQuotedSpread(cds, 0.01, yc, puf)
		require.NoError(t, err)
		require.InDelta(t, spread, back, 1e-10*math.Max(1, spread))
	}
}
