// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"strings"
)

// ContiguityMode selects which shared geometry makes two polygons neighbors.
type ContiguityMode int

const (
	// Rook neighbors share an edge.
	Rook ContiguityMode = iota
	// Queen neighbors share an edge or a vertex.
	Queen
)

// String returns "ROOK" or "QUEEN".
func (m ContiguityMode) String() string {
	switch m {
	case Rook:
		return "ROOK"
	case Queen:
		return "QUEEN"
	default:
		return fmt.Sprintf("ContiguityMode(%d)", int(m))
	}
}

// ParseContiguityMode accepts "rook" or "queen" in any case.
func ParseContiguityMode(s string) (ContiguityMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROOK":
		return Rook, nil
	case "QUEEN":
		return Queen, nil
	default:
		return 0, fmt.Errorf("contiguity mode %q: %w", s, ErrInvalidParameterCombination)
	}
}

// ContiguityFinder detects polygon adjacency.
//
// Contiguity returns, for every feature in features that has at least one
// neighbor, the master ids of its neighbors. Keys and values are values of
// the masterField attribute.
type ContiguityFinder interface {
	Contiguity(features string, masterField string, mode ContiguityMode) (map[int64][]int64, error)
}

// ContiguityFunc adapts a plain function to ContiguityFinder.
type ContiguityFunc func(features string, masterField string, mode ContiguityMode) (map[int64][]int64, error)

// Contiguity calls f.
func (f ContiguityFunc) Contiguity(features string, masterField string, mode ContiguityMode) (map[int64][]int64, error) {
	return f(features, masterField, mode)
}
