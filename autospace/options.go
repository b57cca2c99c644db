// SPDX-License-Identifier: MIT
// Package autospace: functional options.

package autospace

import "go.uber.org/zap"

// DefaultPValue is the default significance level.
const DefaultPValue = 0.01

// Option customizes a Run call.
type Option func(*runConfig)

type runConfig struct {
	pValue float64
	combo  bool
	logger *zap.Logger
}

func newRunConfig(opts ...Option) runConfig {
	cfg := runConfig{pValue: DefaultPValue, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithPValue sets the significance level. Panics unless 0 < p < 1.
func WithPValue(p float64) Option {
	if !(p > 0 && p < 1) {
		panic("autospace: WithPValue outside (0,1)")
	}
	return func(c *runConfig) {
		c.pValue = p
	}
}

// WithCombo routes the MIXED category to the combined lag+error estimators
// instead of the spatial lag with HAC variance.
func WithCombo(on bool) Option {
	return func(c *runConfig) {
		c.combo = on
	}
}

// WithLogger routes run diagnostics to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("autospace: WithLogger(nil)")
	}
	return func(c *runConfig) {
		c.logger = l
	}
}
