// SPDX-License-Identifier: MIT

package weights

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/spreg/geometry"
	"github.com/katalvlaran/spreg/registry"
)

// ContiguityStrategy builds binary weights from polygon contiguity.
type ContiguityStrategy struct {
	Finder   geometry.ContiguityFinder
	Features string // feature source handed to Finder
	Mode     geometry.ContiguityMode
}

// Kind returns KindContiguity.
func (ContiguityStrategy) Kind() Kind { return KindContiguity }

// Build asks Finder for master-id adjacency keyed by reg.Field() and
// translates subjects and neighbors to order ids. Every neighbor gets weight
// 1; the result is flagged row-standardized unless WithRowStandard(false).
//
// Subjects are processed in ascending master id so logs and replaced-row
// accounting are deterministic. Ids outside reg are dropped.
//
// Errors:
//   - ErrNilCollaborator, ErrNilRegistry.
//   - ErrInvalidParameterCombination for a mode other than Rook/Queen.
//   - Finder errors, wrapped.
func (s ContiguityStrategy) Build(reg *registry.Registry, opts ...Option) (*SpatialWeights, error) {
	if s.Finder == nil {
		return nil, fmt.Errorf("ContiguityStrategy.Build: %w", ErrNilCollaborator)
	}
	if reg == nil {
		return nil, fmt.Errorf("ContiguityStrategy.Build: %w", ErrNilRegistry)
	}
	if s.Mode != geometry.Rook && s.Mode != geometry.Queen {
		return nil, fmt.Errorf("ContiguityStrategy.Build: %v: %w", s.Mode, ErrInvalidParameterCombination)
	}
	cfg := newBuildConfig(opts...)

	adj, err := s.Finder.Contiguity(s.Features, reg.Field(), s.Mode)
	if err != nil {
		return nil, fmt.Errorf("ContiguityStrategy.Build(%v): %w", s.Mode, err)
	}

	masters := make([]int64, 0, len(adj))
	for m := range adj {
		masters = append(masters, m)
	}
	sort.Slice(masters, func(a, b int) bool { return masters[a] < masters[b] })

	asm := newAssembler(reg.Len())
	var unknownSubjects, unknownNbrs, emptied int
	for _, m := range masters {
		order, ok := reg.Order(m)
		if !ok {
			unknownSubjects++
			continue
		}
		nbrs := adj[m]
		row := make([]Neighbor, 0, len(nbrs))
		for _, nm := range nbrs {
			nOrder, ok := reg.Order(nm)
			if !ok {
				unknownNbrs++
				continue
			}
			row = append(row, Neighbor{Order: nOrder, Weight: 1})
		}
		if !asm.set(order, row) {
			emptied++
		}
	}

	cfg.logger.Debug("contiguity translated to order ids",
		zap.Stringer("mode", s.Mode),
		zap.String("features", s.Features),
		zap.Int("subjects", len(masters)),
		zap.Int("unknown_subjects", unknownSubjects),
		zap.Int("unknown_neighbors", unknownNbrs),
		zap.Int("emptied_rows", emptied),
	)

	return asm.finish(cfg.rowStandard), nil
}
