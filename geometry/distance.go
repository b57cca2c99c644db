// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"strings"
)

// NeighborMode selects how the proximity search picks neighbors.
// The numeric values are stable and used in configuration files.
type NeighborMode int

const (
	// InverseDistance keeps neighbors within the band, weighted 1/d^exponent.
	InverseDistance NeighborMode = 0
	// FixedDistance keeps neighbors within the band, weighted 1.
	FixedDistance NeighborMode = 1
	// KNearest keeps the k closest observations, weighted 1.
	KNearest NeighborMode = 2
	// Delaunay keeps the natural neighbors of a Delaunay triangulation.
	Delaunay NeighborMode = 3
)

var neighborModeNames = map[NeighborMode]string{
	InverseDistance: "inverse_distance",
	FixedDistance:   "fixed_distance",
	KNearest:        "k_nearest",
	Delaunay:        "delaunay",
}

// String returns the snake_case configuration name of m.
func (m NeighborMode) String() string {
	if s, ok := neighborModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("NeighborMode(%d)", int(m))
}

// ParseNeighborMode accepts the names produced by String, case-insensitive.
func ParseNeighborMode(s string) (NeighborMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range neighborModeNames {
		if name == key {
			return m, nil
		}
	}

	return 0, fmt.Errorf("neighbor mode %q: %w", s, ErrInvalidParameterCombination)
}

// WeightType is the weighting scheme requested from the searcher.
type WeightType int

const (
	// WeightInverse assigns 1/d^exponent.
	WeightInverse WeightType = 0
	// WeightFixed assigns 1 to every neighbor.
	WeightFixed WeightType = 1
)

// Metric is the distance metric a caller asks for.
type Metric string

const (
	Euclidean Metric = "euclidean"
	Manhattan Metric = "manhattan"
)

// ParseMetric normalizes s to a known Metric.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case Euclidean, Manhattan:
		return m, nil
	default:
		return "", fmt.Errorf("distance metric %q: %w", s, ErrInvalidParameterCombination)
	}
}

// Concept is the distance actually computed once the CRS is known.
type Concept int

const (
	ConceptEuclidean Concept = iota
	ConceptManhattan
	// ConceptChordal is the straight-line chord through the sphere between
	// two geographic positions.
	ConceptChordal
)

// String returns a lowercase name.
func (c Concept) String() string {
	switch c {
	case ConceptEuclidean:
		return "euclidean"
	case ConceptManhattan:
		return "manhattan"
	case ConceptChordal:
		return "chordal"
	default:
		return fmt.Sprintf("Concept(%d)", int(c))
	}
}

// CRS describes the coordinate reference system of a coordinate set.
type CRS struct {
	Name       string
	Geographic bool // true for lon/lat degrees, false for projected units
}

// ValidateDistanceMethod resolves metric against crs.
//
// Projected systems get the requested metric. Geographic systems always get
// ConceptChordal; manhattan distance has no meaning on the sphere and is
// rejected.
//
// Errors:
//   - ErrInvalidParameterCombination for an unknown metric or manhattan on a
//     geographic CRS.
func ValidateDistanceMethod(metric Metric, crs CRS) (Concept, error) {
	m, err := ParseMetric(string(metric))
	if err != nil {
		return 0, err
	}
	if crs.Geographic {
		if m == Manhattan {
			return 0, fmt.Errorf("manhattan distance on geographic CRS %q: %w", crs.Name, ErrInvalidParameterCombination)
		}
		return ConceptChordal, nil
	}
	if m == Manhattan {
		return ConceptManhattan, nil
	}

	return ConceptEuclidean, nil
}

// Point is one observation location: X/Y in projected units, or
// longitude/latitude in degrees for a geographic CRS.
type Point struct {
	X, Y float64
}

// Coordinates is the coordinate structure of the active observation set.
// Points[i] belongs to order id i.
type Coordinates struct {
	Points []Point
	CRS    CRS
}

// SearchRequest carries the resolved search parameters.
type SearchRequest struct {
	Mode        NeighborMode
	Band        float64 // distance band; 0 means "no band"
	K           int     // neighbor count (k-nearest) or minimum neighbors (band modes)
	Concept     Concept
	WeightType  WeightType
	Exponent    float64 // distance decay for WeightInverse
	IncludeSelf bool
}

// Pair is one (order id, weight) neighbor entry.
type Pair struct {
	Order  int
	Weight float64
}

// ProximitySearcher finds neighbors over coordinates. Search returns one row
// per point, aligned to the dense order-id space of coords.Points.
type ProximitySearcher interface {
	ValidateDistanceMethod(metric Metric, crs CRS) (Concept, error)
	Search(coords Coordinates, req SearchRequest) ([][]Pair, error)
}
