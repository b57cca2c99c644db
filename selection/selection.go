// SPDX-License-Identifier: MIT

// Package selection implements the Lagrange Multiplier decision procedure
// that maps spatial diagnostic significance flags to a model category.
//
// The procedure (Anselin's robust LM approach) in precedence order:
//
//  1. Neither LM-Lag nor LM-Error significant: OLS.
//  2. Both robust tests significant: MIXED.
//  3. Robust LM-Lag significant: LAG.
//  4. Robust LM-Error significant: ERROR.
//  5. No robust test significant: both plain tests significant gives MIXED,
//     plain LM-Lag significant gives LAG, otherwise ERROR.
//
// Choose is total and pure.
package selection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory indicates a string that names no Category.
var ErrUnknownCategory = errors.New("selection: unknown category")

// Flags are the significance outcomes of the four spatial LM tests.
type Flags struct {
	SigError       bool
	SigLag         bool
	SigErrorRobust bool
	SigLagRobust   bool
}

// Category is the selected model family.
type Category int

const (
	OLS Category = iota
	LAG
	ERROR
	MIXED
)

// String returns "OLS", "LAG", "ERROR" or "MIXED".
func (c Category) String() string {
	switch c {
	case OLS:
		return "OLS"
	case LAG:
		return "LAG"
	case ERROR:
		return "ERROR"
	case MIXED:
		return "MIXED"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory is the inverse of String, case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OLS":
		return OLS, nil
	case "LAG":
		return LAG, nil
	case "ERROR":
		return ERROR, nil
	case "MIXED":
		return MIXED, nil
	default:
		return OLS, fmt.Errorf("ParseCategory(%q): %w", s, ErrUnknownCategory)
	}
}

// Choose applies the decision procedure to f.
func Choose(f Flags) Category {
	switch {
	case !f.SigLag && !f.SigError:
		return OLS
	case f.SigLagRobust && f.SigErrorRobust:
		return MIXED
	case f.SigLagRobust:
		return LAG
	case f.SigErrorRobust:
		return ERROR
	case f.SigLag && f.SigError:
		return MIXED
	case f.SigLag:
		return LAG
	default:
		return ERROR
	}
}
