package calibrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func TestParameterTransforms(t *testing.T) {
	testCases := []struct {
		name   string
		tr     ParameterTransform
		values []float64
	}{
		{name: "NULL", tr: NullTransform{}, values: []float64{-3, 0, 2.5}},
		{name: "ABOVE", tr: SingleRangeLimitTransform{Limit: 0.1}, values: []float64{0.11, 1, 40}},
		{name: "BELOW", tr: SingleRangeLimitTransform{Limit: 2, Below: true}, values: []float64{-5, 0, 1.99}},
		{name: "RANGE", tr: DoubleRangeLimitTransform{Lower: -1, Upper: 1}, values: []float64{-0.99, -0.3, 0, 0.7}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, v := range tc.values {
				fit := tc.tr.Transform(v)
				require.InDelta(t, v, tc.tr.Inverse(fit), 1e-12)
				grad := fd.Derivative(tc.tr.Inverse, fit, &fd.Settings{Formula: fd.Central})
				require.InDelta(t, grad, tc.tr.InverseGradient(fit), 1e-7*(1+math.Abs(grad)))
			}
		})
	}

	// Boundary values stay finite in fitting space.
	r := DoubleRangeLimitTransform{Lower: 0, Upper: 1}
	require.False(t, math.IsInf(r.Transform(1), 0))
	require.False(t, math.IsInf(r.Transform(0), 0))
	require.False(t, math.IsInf(SingleRangeLimitTransform{}.Transform(0), 0))

	_, err := NewDoubleRangeLimitTransform(1, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUncoupledParameterTransforms(t *testing.T) {
	start := []float64{0.05, 0.5, -0.3, 0.2}
	u, err := NewUncoupledParameterTransforms(start, SabrTransforms(), []bool{false, true, false, false})
	require.NoError(t, err)
	require.Equal(t, 4, u.NumberOfModelParameters())
	require.Equal(t, 3, u.NumberOfFitParameters())
	require.Equal(t, []int{0, 2, 3}, u.Free())

	fit := u.Transform([]float64{0.07, 0.9, 0.1, 0.4})
	require.Len(t, fit, 3)
	model := u.Inverse(fit)
	require.InDelta(t, 0.07, model[0], 1e-14)
	require.Equal(t, 0.5, model[1])
	require.InDelta(t, 0.1, model[2], 1e-14)
	require.InDelta(t, 0.4, model[3], 1e-14)

	_, err = NewUncoupledParameterTransforms(start, SabrTransforms(), []bool{true})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewUncoupledParameterTransforms(start, SabrTransforms()[:2], nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewUncoupledParameterTransforms(start, SabrTransforms(), []bool{true, true, true, true})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
