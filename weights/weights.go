// SPDX-License-Identifier: MIT

package weights

import (
	"fmt"
	"math"

	"github.com/katalvlaran/spreg/matrix"
)

// Neighbor is one (order id, weight) entry of a row.
type Neighbor struct {
	Order  int
	Weight float64
}

// SpatialWeights is the sparse neighbor structure over n observations.
//
// rows[i] is nil when observation i has no neighbors; stored rows are never
// empty. Weights are stored raw; rowStandardized tells readers to divide by
// the row total.
type SpatialWeights struct {
	n               int
	rows            [][]Neighbor
	rowStandardized bool
}

// Stats is a read-only summary of a SpatialWeights.
type Stats struct {
	N             int     // observations
	NonZero       int     // stored neighbor entries
	S0            float64 // sum of effective weights
	MinNeighbors  int
	MaxNeighbors  int
	MeanNeighbors float64
	Islands       int     // observations without neighbors
	PctNonZero    float64 // 100 * NonZero / N²
}

// N returns the number of observations (the order-id space size).
func (w *SpatialWeights) N() int { return w.n }

// RowStandardized reports whether effective weights are row-normalized.
func (w *SpatialWeights) RowStandardized() bool { return w.rowStandardized }

// Has reports whether observation i has at least one neighbor.
func (w *SpatialWeights) Has(i int) bool {
	return i >= 0 && i < w.n && w.rows[i] != nil
}

// Cardinality returns the neighbor count of i (0 for islands and ids outside [0,N)).
func (w *SpatialWeights) Cardinality(i int) int {
	if !w.Has(i) {
		return 0
	}
	return len(w.rows[i])
}

// RawRow returns a copy of the stored row i, or nil when i has no neighbors.
func (w *SpatialWeights) RawRow(i int) []Neighbor {
	if !w.Has(i) {
		return nil
	}
	out := make([]Neighbor, len(w.rows[i]))
	copy(out, w.rows[i])

	return out
}

// Row returns a copy of row i with effective weights: divided by the raw row
// total when RowStandardized, otherwise unchanged. Rows whose total is zero
// are returned raw.
func (w *SpatialWeights) Row(i int) []Neighbor {
	out := w.RawRow(i)
	if out == nil || !w.rowStandardized {
		return out
	}
	scaleRow(out)

	return out
}

// scaleRow divides each weight by the row total in place (no-op for total 0).
func scaleRow(row []Neighbor) {
	var sum float64
	for _, nb := range row {
		sum += nb.Weight
	}
	if sum == 0 {
		return
	}
	for k := range row {
		row[k].Weight /= sum
	}
}

// Islands returns the order ids without neighbors, ascending.
func (w *SpatialWeights) Islands() []int {
	var out []int
	for i, row := range w.rows {
		if row == nil {
			out = append(out, i)
		}
	}

	return out
}

// RowStandardize returns a new SpatialWeights whose stored weights are the
// row-normalized ones and whose flag is set. Applying it again yields the
// same rows: normalized rows already sum to 1.
func (w *SpatialWeights) RowStandardize() *SpatialWeights {
	out := &SpatialWeights{n: w.n, rows: make([][]Neighbor, w.n), rowStandardized: true}
	for i, row := range w.rows {
		if row == nil {
			continue
		}
		cp := make([]Neighbor, len(row))
		copy(cp, row)
		scaleRow(cp)
		out.rows[i] = cp
	}

	return out
}

// Lag returns the spatial lag Wy using effective weights.
//
// Errors:
//   - ErrLengthMismatch when len(y) != N().
//
// Complexity: O(N + NonZero).
func (w *SpatialWeights) Lag(y []float64) ([]float64, error) {
	if len(y) != w.n {
		return nil, fmt.Errorf("Lag: len(y)=%d, n=%d: %w", len(y), w.n, ErrLengthMismatch)
	}
	out := make([]float64, w.n)
	for i := range w.rows {
		for _, nb := range w.Row(i) {
			out[i] += nb.Weight * y[nb.Order]
		}
	}

	return out, nil
}

// ToDense materializes the effective weights as an N×N matrix.
//
// Errors:
//   - matrix.ErrInvalidDimensions when N() == 0.
//
// Complexity: O(N²) space.
func (w *SpatialWeights) ToDense() (*matrix.Dense, error) {
	m, err := matrix.NewDense(w.n, w.n)
	if err != nil {
		return nil, fmt.Errorf("ToDense: %w", err)
	}
	for i := range w.rows {
		for _, nb := range w.Row(i) {
			if err = m.Set(i, nb.Order, nb.Weight); err != nil {
				return nil, fmt.Errorf("ToDense: %w", err)
			}
		}
	}

	return m, nil
}

// IsSymmetric reports whether the raw weights satisfy w_ij == w_ji within eps
// for every stored entry.
func (w *SpatialWeights) IsSymmetric(eps float64) bool {
	lookup := func(i, j int) (float64, bool) {
		for _, nb := range w.rows[i] {
			if nb.Order == j {
				return nb.Weight, true
			}
		}
		return 0, false
	}
	for i, row := range w.rows {
		for _, nb := range row {
			back, ok := lookup(nb.Order, i)
			if !ok || math.Abs(back-nb.Weight) > eps {
				return false
			}
		}
	}

	return true
}

// Stats computes the summary in one pass.
func (w *SpatialWeights) Stats() Stats {
	s := Stats{N: w.n}
	if w.n == 0 {
		return s
	}
	s.MinNeighbors = math.MaxInt
	for i, row := range w.rows {
		k := len(row)
		if row == nil {
			s.Islands++
		}
		s.NonZero += k
		s.MinNeighbors = min(s.MinNeighbors, k)
		s.MaxNeighbors = max(s.MaxNeighbors, k)
		for _, nb := range w.Row(i) {
			s.S0 += nb.Weight
		}
	}
	s.MeanNeighbors = float64(s.NonZero) / float64(w.n)
	s.PctNonZero = 100 * float64(s.NonZero) / (float64(w.n) * float64(w.n))

	return s
}

// assembler collects rows during a build and enforces the storage invariants:
// in-range order ids only, no empty rows.
type assembler struct {
	n        int
	rows     [][]Neighbor
	replaced int // subjects seen twice; last row wins
}

func newAssembler(n int) *assembler {
	return &assembler{n: n, rows: make([][]Neighbor, n)}
}

// set stores row for order. Empty rows are ignored and report false.
func (a *assembler) set(order int, row []Neighbor) bool {
	if len(row) == 0 {
		return false
	}
	if a.rows[order] != nil {
		a.replaced++
	}
	a.rows[order] = row

	return true
}

// finish freezes the collected rows.
func (a *assembler) finish(rowStandardized bool) *SpatialWeights {
	return &SpatialWeights{n: a.n, rows: a.rows, rowStandardized: rowStandardized}
}
