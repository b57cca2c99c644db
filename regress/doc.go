// SPDX-License-Identifier: MIT

// Package regress defines the contracts between the model-selection
// pipeline and the regression estimators it drives.
//
// Estimator internals (OLS, spatial lag by IV/2SLS, GM spatial error,
// combined lag+error) live outside this module. What is fixed here:
//
//   - Request: what every estimator call receives (y, X, W, optional kernel
//     weights, robust variance choice, spatial diagnostics switch, names).
//   - Fit: the read side of an estimation, exposing a title and named
//     diagnostic tests with p-values.
//   - Estimators: the six entry points the orchestrator dispatches to.
//
// An estimator that does not compute a statistic simply reports it as
// absent; callers decide whether that is fatal.
package regress
