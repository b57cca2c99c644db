// SPDX-License-Identifier: MIT

package weights

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/spreg/geometry"
	"github.com/katalvlaran/spreg/registry"
)

// DistanceParams are the caller-facing proximity parameters.
type DistanceParams struct {
	Mode        geometry.NeighborMode
	Band        float64         // distance band for inverse / fixed distance
	K           int             // k for k-nearest; minimum neighbors for band modes
	Metric      geometry.Metric // euclidean or manhattan
	Exponent    float64         // distance decay for inverse distance
	IncludeSelf bool
}

// DefaultDistanceParams returns fixed-distance, euclidean, exponent 1.
// Band or K still has to be set by the caller.
func DefaultDistanceParams() DistanceParams {
	return DistanceParams{
		Mode:     geometry.FixedDistance,
		Metric:   geometry.Euclidean,
		Exponent: 1,
	}
}

// DistanceStrategy builds weights through a proximity search over Coords.
// Coords.Points must be aligned with the registry's order ids.
type DistanceStrategy struct {
	Searcher geometry.ProximitySearcher
	Coords   geometry.Coordinates
	Params   DistanceParams
}

// Kind returns KindDistance.
func (DistanceStrategy) Kind() Kind { return KindDistance }

// resolve turns caller parameters into a search request. It runs before any
// search and is the only place parameter combinations are rejected.
//
//   - KNearest: K > 0 required; band forced to 0, weights forced to fixed.
//   - Inverse/Fixed: Band, K >= 0 and not both zero; weight type follows the
//     mode; inverse distance needs Exponent > 0.
//   - Delaunay: band, K, metric and exponent are ignored; fixed weights.
//
// For every mode except Delaunay the metric is validated against the CRS by
// the searcher.
func (s DistanceStrategy) resolve(log *zap.Logger) (geometry.SearchRequest, error) {
	p := s.Params
	req := geometry.SearchRequest{Mode: p.Mode, IncludeSelf: p.IncludeSelf}

	switch p.Mode {
	case geometry.Delaunay:
		req.WeightType = geometry.WeightFixed
		req.IncludeSelf = false
		return req, nil
	case geometry.KNearest:
		if p.K <= 0 {
			return req, fmt.Errorf("k-nearest with k=%d: %w", p.K, ErrInvalidParameterCombination)
		}
		req.Band = 0
		req.K = p.K
		req.WeightType = geometry.WeightFixed
	case geometry.InverseDistance, geometry.FixedDistance:
		if p.Band < 0 || p.K < 0 {
			return req, fmt.Errorf("band=%g k=%d: %w", p.Band, p.K, ErrInvalidParameterCombination)
		}
		if p.Band == 0 && p.K == 0 {
			return req, fmt.Errorf("%v needs a band or a minimum neighbor count: %w", p.Mode, ErrInvalidParameterCombination)
		}
		if p.Mode == geometry.InverseDistance && p.Exponent <= 0 {
			return req, fmt.Errorf("inverse distance exponent=%g: %w", p.Exponent, ErrInvalidParameterCombination)
		}
		req.Band = p.Band
		req.K = p.K
		req.WeightType = geometry.WeightType(p.Mode)
		req.Exponent = p.Exponent
	default:
		return req, fmt.Errorf("neighbor mode %v: %w", p.Mode, ErrInvalidParameterCombination)
	}

	concept, err := s.Searcher.ValidateDistanceMethod(p.Metric, s.Coords.CRS)
	if err != nil {
		return req, err
	}
	if s.Coords.CRS.Geographic {
		log.Warn("geographic coordinates: using chordal distance",
			zap.String("crs", s.Coords.CRS.Name),
			zap.String("requested_metric", string(p.Metric)),
		)
	}
	req.Concept = concept

	return req, nil
}

// Build validates parameters, runs the search and assembles the rows.
// Search output is already in order-id space; out-of-range ids are dropped.
//
// Errors:
//   - ErrNilCollaborator, ErrNilRegistry.
//   - ErrShapeMismatch when len(Coords.Points) or the number of result rows
//     differs from reg.Len().
//   - ErrInvalidParameterCombination from parameter or metric validation,
//     raised before the searcher is called.
//   - Searcher errors, wrapped.
func (s DistanceStrategy) Build(reg *registry.Registry, opts ...Option) (*SpatialWeights, error) {
	if s.Searcher == nil {
		return nil, fmt.Errorf("DistanceStrategy.Build: %w", ErrNilCollaborator)
	}
	if reg == nil {
		return nil, fmt.Errorf("DistanceStrategy.Build: %w", ErrNilRegistry)
	}
	cfg := newBuildConfig(opts...)

	if len(s.Coords.Points) != reg.Len() {
		return nil, fmt.Errorf("DistanceStrategy.Build: %d points for %d observations: %w",
			len(s.Coords.Points), reg.Len(), ErrShapeMismatch)
	}
	req, err := s.resolve(cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("DistanceStrategy.Build: %w", err)
	}

	res, err := s.Searcher.Search(s.Coords, req)
	if err != nil {
		return nil, fmt.Errorf("DistanceStrategy.Build(%v): %w", req.Mode, err)
	}
	if len(res) != reg.Len() {
		return nil, fmt.Errorf("DistanceStrategy.Build: search returned %d rows for %d observations: %w",
			len(res), reg.Len(), ErrShapeMismatch)
	}

	asm := newAssembler(reg.Len())
	var outOfRange, emptied int
	for i, pairs := range res {
		row := make([]Neighbor, 0, len(pairs))
		for _, p := range pairs {
			if p.Order < 0 || p.Order >= reg.Len() {
				outOfRange++
				continue
			}
			row = append(row, Neighbor{Order: p.Order, Weight: p.Weight})
		}
		if !asm.set(i, row) {
			emptied++
		}
	}

	cfg.logger.Debug("proximity search assembled",
		zap.Stringer("mode", req.Mode),
		zap.Stringer("concept", req.Concept),
		zap.Float64("band", req.Band),
		zap.Int("k", req.K),
		zap.Int("out_of_range", outOfRange),
		zap.Int("empty_rows", emptied),
	)

	return asm.finish(cfg.rowStandard), nil
}
