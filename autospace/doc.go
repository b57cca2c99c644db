// SPDX-License-Identifier: MIT

// Package autospace selects and fits a spatial regression model in one call.
//
// Run fits a base OLS with spatial diagnostics, evaluates the diagnostics at
// the configured significance level, picks a model category and performs
// exactly one terminal estimation (or reuses the base fit when plain OLS
// with homoskedastic errors is chosen). Terminal variants:
//
//	MIXED, combo=false      Spatial lag with HAC variance (needs kernel weights)
//	MIXED, combo=true       GM combined lag+error, het or hom by Koenker-Bassett
//	ERROR                   GM spatial error, het or hom
//	LAG                     Spatial lag, White variance when heteroskedastic
//	OLS                     OLS without W, White variance when heteroskedastic
//
// Run is synchronous. No fit is retried; the first error aborts.
package autospace
