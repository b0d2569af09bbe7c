package credit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestISDACurve(t *testing.T) {
	c, err := NewISDACurve([]float64{1, 2, 5}, []float64{0.01, 0.02, 0.03})
	require.NoError(t, err)
	require.Equal(t, 3, c.NumberOfKnots())

	testCases := []struct {
		name    string
		t       float64
		rt      float64
		forward float64
	}{
		{name: "BEFORE_FIRST_KNOT", t: 0.5, rt: 0.005, forward: 0.01},
		{name: "FIRST_KNOT", t: 1, rt: 0.01, forward: 0.03},
		{name: "BETWEEN", t: 1.5, rt: 0.025, forward: 0.03},
		{name: "SECOND_SEGMENT", t: 3, rt: 0.04 + 0.11/3, forward: 0.11 / 3},
		{name: "LAST_KNOT", t: 5, rt: 0.15, forward: 0.03},
		{name: "EXTRAPOLATED", t: 10, rt: 0.3, forward: 0.03},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.rt, c.RT(tc.t), 1e-15)
			require.InDelta(t, tc.forward, c.ForwardRate(tc.t), 1e-15)
			require.InDelta(t, math.Exp(-tc.rt), c.DiscountFactor(tc.t), 1e-15)
			require.InDelta(t, tc.rt/tc.t, c.ZeroRate(tc.t), 1e-15)
		})
	}
	require.Equal(t, 0.01, c.ZeroRate(0))
	require.Equal(t, 1.0, c.DiscountFactor(0))

	moved, err := c.WithRate(1, 0.05)
	require.NoError(t, err)
	require.InDelta(t, 0.02, c.Rates()[1], 1e-16)
	require.InDelta(t, 0.05, moved.Rates()[1], 1e-16)
	require.Equal(t, c.Knots(), moved.Knots())

	scaled := c.Scaled(2)
	require.InDelta(t, 2*c.RT(3.3), scaled.RT(3.3), 1e-15)

	_, err = c.WithRate(3, 0.01)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c.WithRate(0, math.NaN())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewISDACurveInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		times []float64
		rates []float64
	}{
		{name: "EMPTY"},
		{name: "LENGTH_MISMATCH", times: []float64{1, 2}, rates: []float64{0.01}},
		{name: "ZERO_TIME", times: []float64{0, 1}, rates: []float64{0.01, 0.01}},
		{name: "UNSORTED", times: []float64{2, 1}, rates: []float64{0.01, 0.01}},
		{name: "DUPLICATE", times: []float64{1, 1}, rates: []float64{0.01, 0.01}},
		{name: "INFINITE_RATE", times: []float64{1}, rates: []float64{math.Inf(1)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewISDACurve(tc.times, tc.rates)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCreditCurve(t *testing.T) {
	cc, err := NewCreditCurve([]float64{1, 3}, []float64{0.01, 0.02})
	require.NoError(t, err)
	require.InDelta(t, math.Exp(-0.06), cc.SurvivalProbability(3), 1e-15)
	require.InDelta(t, 0.025, cc.HazardRate(2), 1e-15)

	moved, err := cc.WithRate(0, 0.02)
	require.NoError(t, err)
	require.InDelta(t, 0.02, moved.HazardRate(2), 1e-15)

	flat, err := NewFlatCreditCurve(0.03)
	require.NoError(t, err)
	require.InDelta(t, math.Exp(-0.3), flat.SurvivalProbability(10), 1e-15)
}

func TestKnotsBetween(t *testing.T) {
	a, err := NewISDACurve([]float64{1, 2, 5}, []float64{0, 0, 0})
	require.NoError(t, err)
	b, err := NewISDACurve([]float64{2, 3, 10}, []float64{0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1, 2, 3, 4}, knotsBetween(0.5, 4, a, b))
	require.Equal(t, []float64{2, 3, 5}, knotsBetween(2, 5, a, b))
	require.Equal(t, []float64{0, 0.5}, knotsBetween(0, 0.5, a))
}
