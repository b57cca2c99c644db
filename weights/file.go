// SPDX-License-Identifier: MIT

package weights

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/katalvlaran/spreg/registry"
	"github.com/katalvlaran/spreg/swm"
)

// Source is a sequential persisted-weights resource. *swm.Reader implements it.
type Source interface {
	Header() swm.Header
	Next() (swm.Record, error)
	Close() error
}

var _ Source = (*swm.Reader)(nil)

// FileStrategy builds weights from a persisted resource opened by Open.
// Each Build opens the resource once and closes it exactly once.
type FileStrategy struct {
	Open func() (Source, error)
}

// FromFile returns a FileStrategy reading the *.swm file at path.
func FromFile(path string) FileStrategy {
	return FileStrategy{Open: func() (Source, error) {
		r, err := swm.Open(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	}}
}

// Kind returns KindFile.
func (FileStrategy) Kind() Kind { return KindFile }

// Build filters the persisted records down to the active registry.
//
// Implementation:
//   - Stage 1: open; the deferred Close runs on every exit path.
//   - Stage 2: validate NumObs >= reg.Len() and the master field name.
//   - Stage 3: walk records in stored order; skip records without neighbors
//     or with a subject outside reg; drop neighbors outside reg; drop rows
//     that end up empty.
//   - Stage 4: for row-standardized resources, multiply each kept weight by
//     the stored pre-standardization row sum and flag the result.
//
// Errors:
//   - ErrNilCollaborator (no Open), ErrNilRegistry.
//   - ErrShapeMismatch, ErrIdentifierMismatch.
//   - swm.ErrTruncated when the source ends before NumObs records.
//   - swm.ErrRecordShape for a record with len(Weights) != len(Neighbors).
//   - open/parse/close errors, wrapped.
//
// Complexity: O(total stored neighbors) time, O(kept neighbors) space.
func (s FileStrategy) Build(reg *registry.Registry, opts ...Option) (w *SpatialWeights, err error) {
	if s.Open == nil {
		return nil, fmt.Errorf("FileStrategy.Build: %w", ErrNilCollaborator)
	}
	if reg == nil {
		return nil, fmt.Errorf("FileStrategy.Build: %w", ErrNilRegistry)
	}
	cfg := newBuildConfig(opts...)

	src, err := s.Open()
	if err != nil {
		return nil, fmt.Errorf("FileStrategy.Build: open: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			w, err = nil, fmt.Errorf("FileStrategy.Build: close: %w", cerr)
		}
	}()

	h := src.Header()
	if reg.Len() > h.NumObs {
		return nil, fmt.Errorf("FileStrategy.Build: %d active observations, resource has %d: %w",
			reg.Len(), h.NumObs, ErrShapeMismatch)
	}
	if h.MasterField != reg.Field() {
		return nil, fmt.Errorf("FileStrategy.Build: resource field %q, registry field %q: %w",
			h.MasterField, reg.Field(), ErrIdentifierMismatch)
	}

	var (
		asm             = newAssembler(reg.Len())
		skippedSubjects int
		droppedNbrs     int
		emptied         int
	)
	for r := 0; r < h.NumObs; r++ {
		rec, nerr := src.Next()
		if nerr != nil {
			if errors.Is(nerr, io.EOF) {
				nerr = swm.ErrTruncated
			}
			return nil, fmt.Errorf("FileStrategy.Build: record %d of %d: %w", r, h.NumObs, nerr)
		}
		if rec.Count == 0 || len(rec.Neighbors) == 0 {
			continue
		}
		if len(rec.Weights) != len(rec.Neighbors) {
			return nil, fmt.Errorf("FileStrategy.Build: master %d: %d neighbors, %d weights: %w",
				rec.Master, len(rec.Neighbors), len(rec.Weights), swm.ErrRecordShape)
		}
		order, ok := reg.Order(rec.Master)
		if !ok {
			skippedSubjects++
			continue
		}

		row := make([]Neighbor, 0, len(rec.Neighbors))
		for k, nh := range rec.Neighbors {
			nOrder, ok := reg.Order(nh)
			if !ok {
				droppedNbrs++
				continue
			}
			wt := rec.Weights[k]
			if h.RowStandard {
				wt *= rec.RowSum
			}
			row = append(row, Neighbor{Order: nOrder, Weight: wt})
		}
		if !asm.set(order, row) {
			emptied++
		}
	}

	cfg.logger.Debug("weights file filtered to active set",
		zap.String("field", h.MasterField),
		zap.Int("resource_obs", h.NumObs),
		zap.Int("active_obs", reg.Len()),
		zap.Int("skipped_subjects", skippedSubjects),
		zap.Int("dropped_neighbors", droppedNbrs),
		zap.Int("emptied_rows", emptied),
		zap.Int("replaced_rows", asm.replaced),
	)

	return asm.finish(h.RowStandard), nil
}
