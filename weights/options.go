// SPDX-License-Identifier: MIT
// Package weights: functional options.
//
// Option constructors validate and panic on meaningless input; Build itself
// never panics. Options apply left to right, last wins.

package weights

import "go.uber.org/zap"

// Option customizes a Build call.
type Option func(*buildConfig)

// buildConfig is the resolved per-call configuration. Passed by value.
type buildConfig struct {
	logger      *zap.Logger
	rowStandard bool // contiguity / distance only; file follows its header
}

// defaultRowStandard mirrors the usual econometric default of row-standardized W.
const defaultRowStandard = true

// newBuildConfig applies opts over deterministic defaults.
func newBuildConfig(opts ...Option) buildConfig {
	cfg := buildConfig{
		logger:      zap.NewNop(),
		rowStandard: defaultRowStandard,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger routes build diagnostics to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("weights: WithLogger(nil)")
	}
	return func(c *buildConfig) {
		c.logger = l
	}
}

// WithRowStandard sets whether contiguity and distance results are flagged
// row-standardized. The file strategy ignores it and follows the resource.
func WithRowStandard(on bool) Option {
	return func(c *buildConfig) {
		c.rowStandard = on
	}
}
