package smile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSabrFormulaData(t *testing.T) {
	testCases := []struct {
		name                 string
		alpha, beta, rho, nu float64
		ok                   bool
	}{
		{name: "OK", alpha: 0.05, beta: 0.5, rho: -0.3, nu: 0.2, ok: true},
		{name: "BOUNDS", alpha: 0, beta: 1, rho: -1, nu: 0, ok: true},
		{name: "NEGATIVE_ALPHA", alpha: -0.01, beta: 0.5, rho: 0, nu: 0.2},
		{name: "NEGATIVE_BETA", alpha: 0.05, beta: -0.1, rho: 0, nu: 0.2},
		{name: "BETA_ABOVE_ONE", alpha: 0.05, beta: 1.1, rho: 0, nu: 0.2},
		{name: "RHO_BELOW", alpha: 0.05, beta: 0.5, rho: -1.01, nu: 0.2},
		{name: "RHO_ABOVE", alpha: 0.05, beta: 0.5, rho: 1.01, nu: 0.2},
		{name: "NEGATIVE_NU", alpha: 0.05, beta: 0.5, rho: 0, nu: -0.2},
		{name: "INFINITE_ALPHA", alpha: math.Inf(1), beta: 0.5, rho: 0, nu: 0.2},
		{name: "INFINITE_NU", alpha: 0.05, beta: 0.5, rho: 0, nu: math.Inf(1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewSabrFormulaData(tc.alpha, tc.beta, tc.rho, tc.nu)
			if !tc.ok {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []float64{tc.alpha, tc.beta, tc.rho, tc.nu}, d.Parameters())
		})
	}
}

func TestSabrFormulaDataWith(t *testing.T) {
	d := MustSabrFormulaData(0.05, 0.5, -0.3, 0.2)

	updated, err := d.WithRho(0.4)
	require.NoError(t, err)
	require.Equal(t, 0.4, updated.Rho())
	require.Equal(t, -0.3, d.Rho())
	require.Equal(t, MustSabrFormulaData(0.05, 0.5, 0.4, 0.2), updated)

	_, err = d.WithBeta(2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = d.With(4, 0.1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	for i, want := range []float64{0.05, 0.5, -0.3, 0.2} {
		got, err := d.Parameter(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err = d.Parameter(-1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, 4, d.NumberOfParameters())
}

func TestSabrFormulaDataOf(t *testing.T) {
	d, err := SabrFormulaDataOf([]float64{0.05, 0.5, -0.3, 0.2})
	require.NoError(t, err)
	require.Equal(t, MustSabrFormulaData(0.05, 0.5, -0.3, 0.2), d)

	_, err = SabrFormulaDataOf([]float64{0.05, 0.5})
	require.ErrorIs(t, err, ErrInvalidArgument)

	seen := map[SabrFormulaData]bool{d: true}
	require.True(t, seen[MustSabrFormulaData(0.05, 0.5, -0.3, 0.2)])
}
