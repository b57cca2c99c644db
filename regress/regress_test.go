// SPDX-License-Identifier: MIT

package regress_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/spreg/regress"
	"github.com/stretchr/testify/require"
)

func TestEstimators_Validate(t *testing.T) {
	t.Parallel()

	noop := regress.EstimatorFunc(func(regress.Request) (regress.Fit, error) { return regress.StaticFit{}, nil })
	full := regress.Estimators{OLS: noop, Lag: noop, ErrorHet: noop, ErrorHom: noop, ComboHet: noop, ComboHom: noop}
	require.NoError(t, full.Validate())

	tests := []struct {
		name string
		drop func(*regress.Estimators)
	}{
		{"OLS", func(e *regress.Estimators) { e.OLS = nil }},
		{"Lag", func(e *regress.Estimators) { e.Lag = nil }},
		{"ErrorHet", func(e *regress.Estimators) { e.ErrorHet = nil }},
		{"ErrorHom", func(e *regress.Estimators) { e.ErrorHom = nil }},
		{"ComboHet", func(e *regress.Estimators) { e.ComboHet = nil }},
		{"ComboHom", func(e *regress.Estimators) { e.ComboHom = nil }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := full
			tc.drop(&e)
			err := e.Validate()
			require.ErrorIs(t, err, regress.ErrMissingEstimator)
			require.Contains(t, err.Error(), tc.name)
		})
	}
}

func TestEstimatorFunc_PassesRequestThrough(t *testing.T) {
	t.Parallel()

	errFit := errors.New("singular design")
	var got regress.Request
	f := regress.EstimatorFunc(func(req regress.Request) (regress.Fit, error) {
		got = req
		return nil, errFit
	})
	_, err := f.Fit(regress.Request{Robust: regress.RobustHAC, SpatialDiag: true, Names: regress.Names{Y: "price"}})
	require.ErrorIs(t, err, errFit)
	require.Equal(t, regress.RobustHAC, got.Robust)
	require.True(t, got.SpatialDiag)
	require.Equal(t, "price", got.Names.Y)
}

func TestStaticFit_Diagnostic(t *testing.T) {
	t.Parallel()

	f := regress.StaticFit{Name: "OLS", Tests: map[regress.Statistic]regress.Test{
		regress.LMLag: {Value: 7.2, DF: 1, PValue: 0.007},
	}}
	require.Equal(t, "OLS", f.Title())
	tst, ok := f.Diagnostic(regress.LMLag)
	require.True(t, ok)
	require.Equal(t, 0.007, tst.PValue)
	_, ok = f.Diagnostic(regress.RLMError)
	require.False(t, ok)
	require.Len(t, regress.SelectionStatistics, 5)
	require.Equal(t, "white", regress.RobustWhite.String())
	require.Equal(t, "", regress.RobustNone.String())
}
