// SPDX-License-Identifier: MIT

package regress

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/spreg/matrix"
	"github.com/katalvlaran/spreg/weights"
)

// ErrMissingEstimator indicates an Estimators value with a nil entry.
var ErrMissingEstimator = errors.New("regress: estimator is nil")

// Robust selects the variance-covariance estimator.
type Robust int

const (
	// RobustNone is the classical (homoskedastic) variance.
	RobustNone Robust = iota
	// RobustWhite is the White heteroskedasticity-consistent variance.
	RobustWhite
	// RobustHAC is the kernel-based heteroskedasticity and autocorrelation
	// consistent variance; requires Request.GWK.
	RobustHAC
)

// String returns "", "white" or "hac".
func (r Robust) String() string {
	switch r {
	case RobustNone:
		return ""
	case RobustWhite:
		return "white"
	case RobustHAC:
		return "hac"
	default:
		return fmt.Sprintf("Robust(%d)", int(r))
	}
}

// Names carries the labels estimators print in their reports.
type Names struct {
	Y   string   // dependent variable
	X   []string // exogenous variables, in column order
	W   string   // spatial weights
	GWK string   // kernel weights
	DS  string   // dataset
}

// Request is one estimator call. W and GWK are shared read-only.
type Request struct {
	Y           []float64
	X           *matrix.Dense
	W           *weights.SpatialWeights // nil for a non-spatial fit
	GWK         *weights.SpatialWeights // kernel weights, used with RobustHAC
	Robust      Robust
	SpatialDiag bool // compute LM spatial diagnostics
	Names       Names
}

// Statistic names a diagnostic test an estimator may report.
type Statistic string

const (
	KoenkerBassett Statistic = "koenker_bassett"
	LMError        Statistic = "lm_error"
	LMLag          Statistic = "lm_lag"
	RLMError       Statistic = "rlm_error"
	RLMLag         Statistic = "rlm_lag"
)

// SelectionStatistics are the tests model selection reads from the base fit.
var SelectionStatistics = []Statistic{KoenkerBassett, LMError, LMLag, RLMError, RLMLag}

// Test is one diagnostic result.
type Test struct {
	Value  float64
	DF     int
	PValue float64
}

// Fit is a completed estimation.
type Fit interface {
	Title() string
	Diagnostic(s Statistic) (Test, bool)
}

// Estimator runs one model on a Request.
type Estimator interface {
	Fit(req Request) (Fit, error)
}

// EstimatorFunc adapts an ordinary function to Estimator.
type EstimatorFunc func(req Request) (Fit, error)

// Fit calls f(req).
func (f EstimatorFunc) Fit(req Request) (Fit, error) { return f(req) }

// Estimators are the entry points model selection dispatches to.
type Estimators struct {
	OLS      Estimator // ordinary least squares, with optional LM diagnostics
	Lag      Estimator // spatial lag (two-stage least squares)
	ErrorHet Estimator // GM spatial error, heteroskedastic
	ErrorHom Estimator // GM spatial error, homoskedastic
	ComboHet Estimator // GM spatial lag + error, heteroskedastic
	ComboHom Estimator // GM spatial lag + error, homoskedastic
}

// Validate reports the first nil entry, in field order.
func (e Estimators) Validate() error {
	checks := []struct {
		name string
		est  Estimator
	}{
		{"OLS", e.OLS},
		{"Lag", e.Lag},
		{"ErrorHet", e.ErrorHet},
		{"ErrorHom", e.ErrorHom},
		{"ComboHet", e.ComboHet},
		{"ComboHom", e.ComboHom},
	}
	for _, c := range checks {
		if c.est == nil {
			return fmt.Errorf("Estimators.Validate: %s: %w", c.name, ErrMissingEstimator)
		}
	}

	return nil
}

// StaticFit is a Fit backed by a fixed table of tests. Useful for adapters
// around estimators that produce their diagnostics up front.
type StaticFit struct {
	Name  string
	Tests map[Statistic]Test
}

// Title returns f.Name.
func (f StaticFit) Title() string { return f.Name }

// Diagnostic looks s up in f.Tests.
func (f StaticFit) Diagnostic(s Statistic) (Test, bool) {
	t, ok := f.Tests[s]
	return t, ok
}
