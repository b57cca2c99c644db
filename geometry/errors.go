// SPDX-License-Identifier: MIT

package geometry

import "errors"

var (
	// ErrInvalidParameterCombination indicates search parameters that cannot
	// be honored together, e.g. a manhattan metric on geographic coordinates,
	// an unknown metric/mode name, or a negative distance band.
	ErrInvalidParameterCombination = errors.New("geometry: invalid parameter combination")

	// ErrUnsupportedMode indicates a neighbor mode the searcher does not
	// implement (PointSearcher has no Delaunay triangulation).
	ErrUnsupportedMode = errors.New("geometry: unsupported neighbor mode")

	// ErrEmptyLattice indicates a Lattice with zero rows or columns.
	ErrEmptyLattice = errors.New("geometry: lattice has no cells")
)
