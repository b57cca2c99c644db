// SPDX-License-Identifier: MIT

// Package diagnostics turns the tests reported by a base regression fit into
// significance flags for model selection.
package diagnostics

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/spreg/regress"
	"github.com/katalvlaran/spreg/selection"
)

var (
	// ErrMissingStatistic indicates a fit that does not report one of the
	// five selection statistics.
	ErrMissingStatistic = errors.New("diagnostics: statistic not reported")

	// ErrInvalidThreshold indicates a significance level outside (0,1).
	ErrInvalidThreshold = errors.New("diagnostics: threshold must be in (0,1)")

	// ErrNilFit indicates Evaluate was called without a fit.
	ErrNilFit = errors.New("diagnostics: fit is nil")
)

// PValues are the raw p-values the flags were derived from.
type PValues struct {
	KoenkerBassett float64
	LMError        float64
	LMLag          float64
	RLMError       float64
	RLMLag         float64
}

// Snapshot is the outcome of one evaluation. A test is significant when its
// p-value is strictly below Threshold.
type Snapshot struct {
	selection.Flags
	Heteroskedastic bool
	Threshold       float64
	PValues         PValues
}

// Evaluate reads the Koenker-Bassett and the four spatial LM tests from fit
// and compares each p-value to threshold.
//
// Errors:
//   - ErrInvalidThreshold unless 0 < threshold < 1.
//   - ErrNilFit.
//   - ErrMissingStatistic naming the first absent statistic.
func Evaluate(fit regress.Fit, threshold float64) (Snapshot, error) {
	if !(threshold > 0 && threshold < 1) {
		return Snapshot{}, fmt.Errorf("Evaluate: threshold=%g: %w", threshold, ErrInvalidThreshold)
	}
	if fit == nil {
		return Snapshot{}, fmt.Errorf("Evaluate: %w", ErrNilFit)
	}

	var pv PValues
	targets := map[regress.Statistic]*float64{
		regress.KoenkerBassett: &pv.KoenkerBassett,
		regress.LMError:        &pv.LMError,
		regress.LMLag:          &pv.LMLag,
		regress.RLMError:       &pv.RLMError,
		regress.RLMLag:         &pv.RLMLag,
	}
	for _, s := range regress.SelectionStatistics {
		t, ok := fit.Diagnostic(s)
		if !ok {
			return Snapshot{}, fmt.Errorf("Evaluate(%q): %s: %w", fit.Title(), s, ErrMissingStatistic)
		}
		*targets[s] = t.PValue
	}

	sig := func(p float64) bool { return p < threshold }

	return Snapshot{
		Flags: selection.Flags{
			SigError:       sig(pv.LMError),
			SigLag:         sig(pv.LMLag),
			SigErrorRobust: sig(pv.RLMError),
			SigLagRobust:   sig(pv.RLMLag),
		},
		Heteroskedastic: sig(pv.KoenkerBassett),
		Threshold:       threshold,
		PValues:         pv,
	}, nil
}
