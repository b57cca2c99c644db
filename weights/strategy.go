// SPDX-License-Identifier: MIT

package weights

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/spreg/registry"
)

// Kind enumerates the weights sources.
type Kind int

const (
	KindFile Kind = iota
	KindContiguity
	KindDistance
)

// String returns "file", "contiguity" or "distance".
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindContiguity:
		return "contiguity"
	case KindDistance:
		return "distance"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Strategy is one way of producing SpatialWeights for an active registry.
// Implementations hold their collaborators and parameters; per-call knobs
// (logger, row standardization) arrive as Options.
type Strategy interface {
	Kind() Kind
	Build(reg *registry.Registry, opts ...Option) (*SpatialWeights, error)
}

var (
	_ Strategy = FileStrategy{}
	_ Strategy = ContiguityStrategy{}
	_ Strategy = DistanceStrategy{}
)

// Build runs s against reg and logs a summary of the result at info level.
//
// Errors:
//   - ErrNilRegistry, ErrNilCollaborator; plus anything s.Build returns.
func Build(s Strategy, reg *registry.Registry, opts ...Option) (*SpatialWeights, error) {
	if s == nil {
		return nil, fmt.Errorf("Build: %w", ErrNilCollaborator)
	}
	if reg == nil {
		return nil, fmt.Errorf("Build(%v): %w", s.Kind(), ErrNilRegistry)
	}
	w, err := s.Build(reg, opts...)
	if err != nil {
		return nil, err
	}

	st := w.Stats()
	newBuildConfig(opts...).logger.Info("spatial weights built",
		zap.Stringer("kind", s.Kind()),
		zap.Int("n", st.N),
		zap.Int("nonzero", st.NonZero),
		zap.Float64("mean_neighbors", st.MeanNeighbors),
		zap.Int("islands", st.Islands),
		zap.Int("components", len(w.Components())),
		zap.Bool("row_standardized", w.RowStandardized()),
	)

	return w, nil
}

// New assembles a SpatialWeights directly from order-id rows, e.g. a
// caller-supplied kernel weights structure for HAC estimation.
//
// Errors:
//   - ErrShapeMismatch when a subject or neighbor order id is outside [0,n).
func New(n int, rows map[int][]Neighbor, rowStandardized bool) (*SpatialWeights, error) {
	if n < 0 {
		return nil, fmt.Errorf("New: n=%d: %w", n, ErrShapeMismatch)
	}
	asm := newAssembler(n)
	keys := make([]int, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, i := range keys {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("New: subject %d outside [0,%d): %w", i, n, ErrShapeMismatch)
		}
		row := make([]Neighbor, len(rows[i]))
		for k, nb := range rows[i] {
			if nb.Order < 0 || nb.Order >= n {
				return nil, fmt.Errorf("New: neighbor %d of %d outside [0,%d): %w", nb.Order, i, n, ErrShapeMismatch)
			}
			row[k] = nb
		}
		asm.set(i, row)
	}

	return asm.finish(rowStandardized), nil
}
