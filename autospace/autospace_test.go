// SPDX-License-Identifier: MIT

package autospace_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/spreg/autospace"
	"github.com/katalvlaran/spreg/diagnostics"
	"github.com/katalvlaran/spreg/matrix"
	"github.com/katalvlaran/spreg/regress"
	"github.com/katalvlaran/spreg/selection"
	"github.com/katalvlaran/spreg/weights"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// call is one recorded estimator invocation.
type call struct {
	estimator string
	req       regress.Request
}

// bench wires six recording estimators. The OLS estimator answers the first
// (spatial diagnostics) call with base and later calls with a plain fit.
type bench struct {
	base  regress.StaticFit
	calls []call
	fail  map[string]error
}

func (b *bench) estimator(name string) regress.Estimator {
	return regress.EstimatorFunc(func(req regress.Request) (regress.Fit, error) {
		b.calls = append(b.calls, call{estimator: name, req: req})
		if err := b.fail[name]; err != nil {
			return nil, err
		}
		if name == "OLS" && req.SpatialDiag {
			return b.base, nil
		}
		return regress.StaticFit{Name: name}, nil
	})
}

func (b *bench) estimators() regress.Estimators {
	return regress.Estimators{
		OLS:      b.estimator("OLS"),
		Lag:      b.estimator("Lag"),
		ErrorHet: b.estimator("ErrorHet"),
		ErrorHom: b.estimator("ErrorHom"),
		ComboHet: b.estimator("ComboHet"),
		ComboHom: b.estimator("ComboHom"),
	}
}

// baseFit reports the given p-values under the selection statistics.
func baseFit(kb, lmErr, lmLag, rlmErr, rlmLag float64) regress.StaticFit {
	return regress.StaticFit{Name: "OLS base", Tests: map[regress.Statistic]regress.Test{
		regress.KoenkerBassett: {PValue: kb},
		regress.LMError:        {PValue: lmErr},
		regress.LMLag:          {PValue: lmLag},
		regress.RLMError:       {PValue: rlmErr},
		regress.RLMLag:         {PValue: rlmLag},
	}}
}

const (
	sig = 0.001
	ns  = 0.5
)

func testInput(t *testing.T) autospace.Input {
	t.Helper()
	x, err := matrix.NewDenseFromRows([][]float64{{1, 0.5}, {1, 1.5}, {1, 2.5}, {1, 3.0}})
	require.NoError(t, err)
	w, err := weights.New(4, map[int][]weights.Neighbor{
		0: {{Order: 1, Weight: 1}},
		1: {{Order: 0, Weight: 1}, {Order: 2, Weight: 1}},
		2: {{Order: 1, Weight: 1}, {Order: 3, Weight: 1}},
		3: {{Order: 2, Weight: 1}},
	}, true)
	require.NoError(t, err)
	gwk, err := weights.New(4, map[int][]weights.Neighbor{
		0: {{Order: 0, Weight: 1}, {Order: 1, Weight: 0.4}},
		1: {{Order: 1, Weight: 1}, {Order: 0, Weight: 0.4}},
		2: {{Order: 2, Weight: 1}},
		3: {{Order: 3, Weight: 1}},
	}, false)
	require.NoError(t, err)

	return autospace.Input{
		Y:     []float64{3, 4, 6, 7},
		X:     x,
		W:     w,
		GWK:   gwk,
		Names: regress.Names{Y: "HOVAL", X: []string{"CONST", "INC"}, W: "rook.swm", GWK: "kernel"},
	}
}

func TestRun_ErrorHomoskedasticEndToEnd(t *testing.T) {
	t.Parallel()

	b := &bench{base: baseFit(0.02, sig, ns, sig, ns)}
	in := testInput(t)

	res, err := autospace.Run(in, b.estimators(), autospace.WithPValue(0.01))
	require.NoError(t, err)
	require.Equal(t, autospace.LabelErrorHom, res.FinalModel)
	require.Equal(t, "Spatial Error - Homoskedastic", res.FinalModel)
	require.True(t, res.SpatialError)
	require.False(t, res.SpatialLag)
	require.False(t, res.Heteroskedastic)
	require.Equal(t, selection.ERROR, res.Category)
	require.NotEqual(t, uuid.Nil, res.RunID)

	require.Len(t, b.calls, 2)
	first := b.calls[0]
	require.Equal(t, "OLS", first.estimator)
	require.True(t, first.req.SpatialDiag)
	require.Same(t, in.W, first.req.W)
	require.Same(t, in.GWK, first.req.GWK)
	require.Equal(t, "ErrorHom", b.calls[1].estimator)
	require.Same(t, in.W, b.calls[1].req.W)
	require.Equal(t, "HOVAL", b.calls[1].req.Names.Y)
	require.Equal(t, "ErrorHom", res.Final.Title())
	require.Equal(t, "OLS base", res.Base.Title())
}

func TestRun_DecisionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		base       regress.StaticFit
		combo      bool
		wantLabel  string
		wantCall   string // "" when the base fit is reused
		wantRobust regress.Robust
		wantW      bool
		wantGWK    bool
		lag, err   bool
	}{
		{"MixedHAC", baseFit(ns, sig, sig, sig, sig), false, autospace.LabelMixedHAC, "Lag", regress.RobustHAC, true, true, true, true},
		{"MixedHACHet", baseFit(sig, sig, sig, sig, sig), false, autospace.LabelMixedHAC, "Lag", regress.RobustHAC, true, true, true, true},
		{"MixedComboHet", baseFit(sig, sig, sig, sig, sig), true, autospace.LabelMixedHet, "ComboHet", regress.RobustNone, true, false, true, true},
		{"MixedComboHom", baseFit(ns, sig, sig, ns, ns), true, autospace.LabelMixedHom, "ComboHom", regress.RobustNone, true, false, true, true},
		{"ErrorHet", baseFit(sig, sig, ns, ns, ns), false, autospace.LabelErrorHet, "ErrorHet", regress.RobustNone, true, false, false, true},
		{"ErrorHom", baseFit(ns, sig, sig, sig, ns), true, autospace.LabelErrorHom, "ErrorHom", regress.RobustNone, true, false, false, true},
		{"LagHet", baseFit(sig, ns, sig, ns, ns), false, autospace.LabelLagHet, "Lag", regress.RobustWhite, true, false, true, false},
		{"LagHom", baseFit(ns, sig, sig, ns, sig), true, autospace.LabelLagHom, "Lag", regress.RobustNone, true, false, true, false},
		{"NoSpaceHet", baseFit(sig, ns, ns, sig, sig), false, autospace.LabelNoSpaceHet, "OLS", regress.RobustWhite, false, false, false, false},
		{"NoSpaceHom", baseFit(ns, ns, ns, ns, ns), true, autospace.LabelNoSpaceHom, "", regress.RobustNone, false, false, false, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := &bench{base: tc.base}
			in := testInput(t)

			res, err := autospace.Run(in, b.estimators(), autospace.WithCombo(tc.combo))
			require.NoError(t, err)
			require.Equal(t, tc.wantLabel, res.FinalModel)
			require.Equal(t, tc.lag, res.SpatialLag)
			require.Equal(t, tc.err, res.SpatialError)

			if tc.wantCall == "" {
				require.Len(t, b.calls, 1)
				require.Equal(t, res.Base, res.Final)
				return
			}
			require.Len(t, b.calls, 2)
			got := b.calls[1]
			require.Equal(t, tc.wantCall, got.estimator)
			require.Equal(t, tc.wantRobust, got.req.Robust)
			require.False(t, got.req.SpatialDiag)
			require.Equal(t, tc.wantW, got.req.W != nil)
			require.Equal(t, tc.wantGWK, got.req.GWK != nil)
		})
	}
}

func TestRun_FitErrorsAbort(t *testing.T) {
	t.Parallel()

	errSingular := errors.New("singular matrix")

	b := &bench{base: baseFit(ns, sig, ns, ns, ns), fail: map[string]error{"OLS": errSingular}}
	res, err := autospace.Run(testInput(t), b.estimators())
	require.ErrorIs(t, err, errSingular)
	require.Nil(t, res)
	require.Len(t, b.calls, 1)

	b = &bench{base: baseFit(ns, sig, ns, ns, ns), fail: map[string]error{"ErrorHom": errSingular}}
	res, err = autospace.Run(testInput(t), b.estimators())
	require.ErrorIs(t, err, errSingular)
	require.Nil(t, res)
	require.Len(t, b.calls, 2, "no retry after a terminal failure")

	incomplete := regress.StaticFit{Name: "OLS", Tests: map[regress.Statistic]regress.Test{}}
	b = &bench{base: incomplete}
	_, err = autospace.Run(testInput(t), b.estimators())
	require.ErrorIs(t, err, diagnostics.ErrMissingStatistic)
	require.Len(t, b.calls, 1)
}

func TestRun_MissingKernelOnHACBranch(t *testing.T) {
	t.Parallel()

	b := &bench{base: baseFit(ns, sig, sig, sig, sig)}
	in := testInput(t)
	in.GWK = nil
	_, err := autospace.Run(in, b.estimators())
	require.ErrorIs(t, err, autospace.ErrMissingKernel)
	require.Len(t, b.calls, 1)
}

func TestRun_ValidatesBeforeFitting(t *testing.T) {
	t.Parallel()

	b := &bench{base: baseFit(ns, ns, ns, ns, ns)}
	est := b.estimators()

	in := testInput(t)
	in.W = nil
	_, err := autospace.Run(in, est)
	require.ErrorIs(t, err, autospace.ErrNilInput)

	in = testInput(t)
	in.Y = in.Y[:3]
	_, err = autospace.Run(in, est)
	require.ErrorIs(t, err, autospace.ErrNilInput)

	in = testInput(t)
	in.X = nil
	_, err = autospace.Run(in, est)
	require.ErrorIs(t, err, autospace.ErrNilInput)

	noCombo := est
	noCombo.ComboHom = nil
	_, err = autospace.Run(testInput(t), noCombo)
	require.ErrorIs(t, err, autospace.ErrMissingEstimator)

	require.Empty(t, b.calls)
}

func TestRun_LogsSelection(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	b := &bench{base: baseFit(ns, ns, sig, ns, ns)}
	res, err := autospace.Run(testInput(t), b.estimators(), autospace.WithLogger(zap.New(core)))
	require.NoError(t, err)

	fitted := logs.FilterMessage("spatial model fitted").All()
	require.Len(t, fitted, 1)
	fields := fitted[0].ContextMap()
	require.Equal(t, autospace.LabelLagHom, fields["final_model"])
	require.Equal(t, res.RunID.String(), fields["run_id"])
	require.Equal(t, 1, logs.FilterMessage("spatial diagnostics evaluated").Len())
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { autospace.WithPValue(0) })
	require.Panics(t, func() { autospace.WithPValue(1) })
	require.Panics(t, func() { autospace.WithLogger(nil) })
	require.NotPanics(t, func() { autospace.WithPValue(0.05) })
}
