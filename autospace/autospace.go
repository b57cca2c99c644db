// SPDX-License-Identifier: MIT

package autospace

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/spreg/diagnostics"
	"github.com/katalvlaran/spreg/matrix"
	"github.com/katalvlaran/spreg/regress"
	"github.com/katalvlaran/spreg/selection"
	"github.com/katalvlaran/spreg/weights"
)

// Final model labels.
const (
	LabelMixedHAC   = "Spatial Lag with Spatial Error - HAC"
	LabelMixedHet   = "Spatial Lag with Spatial Error - Heteroskedastic"
	LabelMixedHom   = "Spatial Lag with Spatial Error - Homoskedastic"
	LabelErrorHet   = "Spatial Error - Heteroskedastic"
	LabelErrorHom   = "Spatial Error - Homoskedastic"
	LabelLagHet     = "Spatial Lag - Heteroskedastic"
	LabelLagHom     = "Spatial Lag - Homoskedastic"
	LabelNoSpaceHet = "No Space - Heteroskedastic"
	LabelNoSpaceHom = "No Space - Homoskedastic"
)

var (
	// ErrNilInput indicates a missing y, X or W, or inconsistent lengths.
	ErrNilInput = errors.New("autospace: incomplete input")

	// ErrMissingEstimator is regress.ErrMissingEstimator.
	ErrMissingEstimator = regress.ErrMissingEstimator

	// ErrMissingKernel indicates the HAC branch was selected without kernel
	// weights in Input.GWK.
	ErrMissingKernel = errors.New("autospace: HAC estimation needs kernel weights")
)

// Input is the data shared by every fit of a run.
type Input struct {
	Y     []float64
	X     *matrix.Dense
	W     *weights.SpatialWeights
	GWK   *weights.SpatialWeights // optional; required only on the HAC branch
	Names regress.Names
}

// validate checks presence and length agreement.
func (in Input) validate() error {
	switch {
	case len(in.Y) == 0:
		return fmt.Errorf("y is empty: %w", ErrNilInput)
	case in.X == nil:
		return fmt.Errorf("X is nil: %w", ErrNilInput)
	case in.W == nil:
		return fmt.Errorf("W is nil: %w", ErrNilInput)
	case in.X.Rows() != len(in.Y):
		return fmt.Errorf("X has %d rows, y %d: %w", in.X.Rows(), len(in.Y), ErrNilInput)
	case in.W.N() != len(in.Y):
		return fmt.Errorf("W covers %d observations, y %d: %w", in.W.N(), len(in.Y), ErrNilInput)
	case in.GWK != nil && in.GWK.N() != len(in.Y):
		return fmt.Errorf("GWK covers %d observations, y %d: %w", in.GWK.N(), len(in.Y), ErrNilInput)
	}

	return nil
}

// Result describes the selected and fitted model.
type Result struct {
	RunID           uuid.UUID
	FinalModel      string
	Heteroskedastic bool
	SpatialLag      bool
	SpatialError    bool
	Category        selection.Category
	Diagnostics     diagnostics.Snapshot
	Base            regress.Fit // OLS with spatial diagnostics
	Final           regress.Fit // same as Base for homoskedastic OLS
}

// branchKey addresses the decision table.
type branchKey struct {
	cat   selection.Category
	het   bool
	combo bool
}

// branch is one terminal action.
type branch struct {
	label        string
	spatialLag   bool
	spatialError bool
	// fit produces the final model; base is passed for reuse.
	fit func(in Input, est regress.Estimators, base regress.Fit) (regress.Fit, error)
}

// request builds the common Request shape for terminal fits.
func request(in Input, w *weights.SpatialWeights, robust regress.Robust) regress.Request {
	return regress.Request{Y: in.Y, X: in.X, W: w, Robust: robust, Names: in.Names}
}

func call(pick func(regress.Estimators) regress.Estimator, robust regress.Robust) func(Input, regress.Estimators, regress.Fit) (regress.Fit, error) {
	return func(in Input, est regress.Estimators, _ regress.Fit) (regress.Fit, error) {
		return pick(est).Fit(request(in, in.W, robust))
	}
}

var (
	lagOf      = func(e regress.Estimators) regress.Estimator { return e.Lag }
	errorHetOf = func(e regress.Estimators) regress.Estimator { return e.ErrorHet }
	errorHomOf = func(e regress.Estimators) regress.Estimator { return e.ErrorHom }
	comboHetOf = func(e regress.Estimators) regress.Estimator { return e.ComboHet }
	comboHomOf = func(e regress.Estimators) regress.Estimator { return e.ComboHom }
)

func mixedHAC(in Input, est regress.Estimators, _ regress.Fit) (regress.Fit, error) {
	if in.GWK == nil {
		return nil, ErrMissingKernel
	}
	req := request(in, in.W, regress.RobustHAC)
	req.GWK = in.GWK

	return est.Lag.Fit(req)
}

func olsWhite(in Input, est regress.Estimators, _ regress.Fit) (regress.Fit, error) {
	return est.OLS.Fit(request(in, nil, regress.RobustWhite))
}

func reuseBase(_ Input, _ regress.Estimators, base regress.Fit) (regress.Fit, error) {
	return base, nil
}

// decisions is the full dispatch table over (category, het, combo).
var decisions = buildDecisions()

func buildDecisions() map[branchKey]branch {
	d := make(map[branchKey]branch, 16)
	for _, combo := range []bool{false, true} {
		d[branchKey{selection.ERROR, true, combo}] = branch{LabelErrorHet, false, true, call(errorHetOf, regress.RobustNone)}
		d[branchKey{selection.ERROR, false, combo}] = branch{LabelErrorHom, false, true, call(errorHomOf, regress.RobustNone)}
		d[branchKey{selection.LAG, true, combo}] = branch{LabelLagHet, true, false, call(lagOf, regress.RobustWhite)}
		d[branchKey{selection.LAG, false, combo}] = branch{LabelLagHom, true, false, call(lagOf, regress.RobustNone)}
		d[branchKey{selection.OLS, true, combo}] = branch{LabelNoSpaceHet, false, false, olsWhite}
		d[branchKey{selection.OLS, false, combo}] = branch{LabelNoSpaceHom, false, false, reuseBase}
	}
	for _, het := range []bool{false, true} {
		d[branchKey{selection.MIXED, het, false}] = branch{LabelMixedHAC, true, true, mixedHAC}
	}
	d[branchKey{selection.MIXED, true, true}] = branch{LabelMixedHet, true, true, call(comboHetOf, regress.RobustNone)}
	d[branchKey{selection.MIXED, false, true}] = branch{LabelMixedHom, true, true, call(comboHomOf, regress.RobustNone)}

	return d
}

// Run fits the base model, selects the spatial model and fits it.
//
// Errors:
//   - ErrNilInput, ErrMissingEstimator before any fit.
//   - Base fit errors, diagnostics.ErrMissingStatistic, terminal fit errors
//     and ErrMissingKernel, each wrapped; no Result is returned with them.
func Run(in Input, est regress.Estimators, opts ...Option) (*Result, error) {
	cfg := newRunConfig(opts...)
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	if err := est.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	id := uuid.New()
	log := cfg.logger.With(zap.String("run_id", id.String()))

	baseReq := request(in, in.W, regress.RobustNone)
	baseReq.GWK = in.GWK
	baseReq.SpatialDiag = true
	base, err := est.OLS.Fit(baseReq)
	if err != nil {
		return nil, fmt.Errorf("Run: base OLS: %w", err)
	}

	snap, err := diagnostics.Evaluate(base, cfg.pValue)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	cat := selection.Choose(snap.Flags)
	log.Info("spatial diagnostics evaluated",
		zap.Float64("p_value", cfg.pValue),
		zap.Float64("koenker_bassett", snap.PValues.KoenkerBassett),
		zap.Float64("lm_error", snap.PValues.LMError),
		zap.Float64("lm_lag", snap.PValues.LMLag),
		zap.Float64("rlm_error", snap.PValues.RLMError),
		zap.Float64("rlm_lag", snap.PValues.RLMLag),
		zap.Stringer("category", cat),
	)

	b, ok := decisions[branchKey{cat: cat, het: snap.Heteroskedastic, combo: cfg.combo}]
	if !ok {
		return nil, fmt.Errorf("Run: no decision for %v", cat)
	}
	final, err := b.fit(in, est, base)
	if err != nil {
		return nil, fmt.Errorf("Run: %s: %w", b.label, err)
	}
	log.Info("spatial model fitted", zap.String("final_model", b.label), zap.String("title", final.Title()))

	return &Result{
		RunID:           id,
		FinalModel:      b.label,
		Heteroskedastic: snap.Heteroskedastic,
		SpatialLag:      b.spatialLag,
		SpatialError:    b.spatialError,
		Category:        cat,
		Diagnostics:     snap,
		Base:            base,
		Final:           final,
	}, nil
}
