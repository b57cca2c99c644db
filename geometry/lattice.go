// SPDX-License-Identifier: MIT

package geometry

import "fmt"

// Rook and queen offsets as (dRow, dCol), listed so that neighbor master ids
// come out in ascending row-major order.
var (
	rookOffsets  = [][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
	queenOffsets = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// Lattice is a regular Rows×Cols grid of square cells. Cell (r, c) carries
// master id Base + r*Cols + c.
//
// Rook contiguity is 4-connectivity and queen contiguity is 8-connectivity,
// which is exactly the shared-edge / shared-vertex relation of square cells.
type Lattice struct {
	Rows, Cols int
	Base       int64
}

var _ ContiguityFinder = Lattice{}

// Len returns the number of cells.
func (l Lattice) Len() int { return l.Rows * l.Cols }

// inBounds reports whether (r,c) lies within the grid.
func (l Lattice) inBounds(r, c int) bool {
	return r >= 0 && r < l.Rows && c >= 0 && c < l.Cols
}

// Masters returns every cell master id in row-major order.
func (l Lattice) Masters() []int64 {
	out := make([]int64, l.Len())
	for i := range out {
		out[i] = l.Base + int64(i)
	}

	return out
}

// Contiguity implements ContiguityFinder. The lattice is its own feature
// source, so features and masterField only label errors.
//
// Errors:
//   - ErrEmptyLattice when Rows or Cols is not positive.
//   - ErrInvalidParameterCombination for an unknown mode.
//
// Complexity: O(Rows*Cols) time and space.
func (l Lattice) Contiguity(features string, masterField string, mode ContiguityMode) (map[int64][]int64, error) {
	if l.Rows <= 0 || l.Cols <= 0 {
		return nil, fmt.Errorf("Lattice.Contiguity(%q, %q): %dx%d: %w", features, masterField, l.Rows, l.Cols, ErrEmptyLattice)
	}
	var offsets [][2]int
	switch mode {
	case Rook:
		offsets = rookOffsets
	case Queen:
		offsets = queenOffsets
	default:
		return nil, fmt.Errorf("Lattice.Contiguity: %v: %w", mode, ErrInvalidParameterCombination)
	}

	out := make(map[int64][]int64, l.Len())
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			var nbrs []int64
			for _, d := range offsets {
				nr, nc := r+d[0], c+d[1]
				if !l.inBounds(nr, nc) {
					continue
				}
				nbrs = append(nbrs, l.Base+int64(nr*l.Cols+nc))
			}
			if len(nbrs) > 0 {
				out[l.Base+int64(r*l.Cols+c)] = nbrs
			}
		}
	}

	return out, nil
}
