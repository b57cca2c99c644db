// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"math"
	"sort"
)

// EarthRadius is the mean Earth radius in meters used for chordal distance.
const EarthRadius = 6371008.8

// PointSearcher is a brute-force ProximitySearcher. It compares every pair of
// points, so it suits fixtures and small data sets; Delaunay is not supported.
//
// Band modes treat K as a minimum neighbor count: when fewer than K points
// fall inside the band, the nearest points outside it are added until K is
// reached. Coincident points (d == 0) get weight 1 under WeightInverse.
type PointSearcher struct{}

var _ ProximitySearcher = PointSearcher{}

// ValidateDistanceMethod delegates to the package-level rule.
func (PointSearcher) ValidateDistanceMethod(metric Metric, crs CRS) (Concept, error) {
	return ValidateDistanceMethod(metric, crs)
}

// candidate is a neighbor under consideration.
type candidate struct {
	order int
	dist  float64
}

// Search implements ProximitySearcher.
//
// Errors:
//   - ErrUnsupportedMode for Delaunay or an unknown mode.
//   - ErrInvalidParameterCombination for negative Band/K, K == 0 with
//     KNearest, or a non-positive Exponent with WeightInverse.
//
// Complexity: O(n² log n) time, O(n) extra space per row.
func (PointSearcher) Search(coords Coordinates, req SearchRequest) ([][]Pair, error) {
	switch req.Mode {
	case InverseDistance, FixedDistance, KNearest:
	default:
		return nil, fmt.Errorf("PointSearcher.Search: %v: %w", req.Mode, ErrUnsupportedMode)
	}
	if req.Band < 0 || req.K < 0 {
		return nil, fmt.Errorf("PointSearcher.Search: band=%g k=%d: %w", req.Band, req.K, ErrInvalidParameterCombination)
	}
	if req.Mode == KNearest && req.K == 0 {
		return nil, fmt.Errorf("PointSearcher.Search: k-nearest with k=0: %w", ErrInvalidParameterCombination)
	}
	if req.WeightType == WeightInverse && req.Exponent <= 0 {
		return nil, fmt.Errorf("PointSearcher.Search: exponent=%g: %w", req.Exponent, ErrInvalidParameterCombination)
	}

	pts := coords.Points
	dist := distanceFunc(req.Concept)
	out := make([][]Pair, len(pts))
	cands := make([]candidate, 0, len(pts))
	for i := range pts {
		cands = cands[:0]
		for j := range pts {
			if j == i {
				continue
			}
			cands = append(cands, candidate{order: j, dist: dist(pts[i], pts[j])})
		}
		sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })

		keep := selectCandidates(cands, req)
		row := make([]Pair, 0, len(keep)+1)
		if req.IncludeSelf {
			row = append(row, Pair{Order: i, Weight: 1})
		}
		for _, c := range keep {
			row = append(row, Pair{Order: c.order, Weight: weightFor(c.dist, req)})
		}
		out[i] = row
	}

	return out, nil
}

// selectCandidates applies the mode rule to distance-sorted candidates.
func selectCandidates(sorted []candidate, req SearchRequest) []candidate {
	if req.Mode == KNearest || req.Band == 0 {
		return sorted[:min(req.K, len(sorted))]
	}
	n := sort.Search(len(sorted), func(i int) bool { return sorted[i].dist > req.Band })

	return sorted[:max(n, min(req.K, len(sorted)))]
}

// weightFor converts a distance into a weight.
func weightFor(d float64, req SearchRequest) float64 {
	if req.WeightType != WeightInverse || d == 0 {
		return 1
	}

	return 1 / math.Pow(d, req.Exponent)
}

// distanceFunc returns the distance for the resolved concept.
func distanceFunc(c Concept) func(a, b Point) float64 {
	switch c {
	case ConceptManhattan:
		return func(a, b Point) float64 { return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y) }
	case ConceptChordal:
		return chordal
	default:
		return func(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }
	}
}

// chordal returns the chord length in meters between two lon/lat points.
func chordal(a, b Point) float64 {
	ax, ay, az := unitVector(a)
	bx, by, bz := unitVector(b)
	dx, dy, dz := ax-bx, ay-by, az-bz

	return EarthRadius * math.Sqrt(dx*dx+dy*dy+dz*dz)
}

// unitVector maps lon/lat degrees to a point on the unit sphere.
func unitVector(p Point) (x, y, z float64) {
	lon := p.X * math.Pi / 180
	lat := p.Y * math.Pi / 180
	cl := math.Cos(lat)

	return cl * math.Cos(lon), cl * math.Sin(lon), math.Sin(lat)
}
