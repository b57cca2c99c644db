// SPDX-License-Identifier: MIT

package weights_test

import (
	"fmt"

	"github.com/katalvlaran/spreg/geometry"
	"github.com/katalvlaran/spreg/registry"
	"github.com/katalvlaran/spreg/weights"
)

// ExampleBuild builds rook contiguity weights on a 2×2 lattice.
func ExampleBuild() {
	lat := geometry.Lattice{Rows: 2, Cols: 2, Base: 1}
	reg, err := registry.New("CELL", lat.Masters())
	if err != nil {
		fmt.Println(err)
		return
	}
	w, err := weights.Build(weights.ContiguityStrategy{Finder: lat, Mode: geometry.Rook}, reg)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(w.Row(0))
	fmt.Println(w.Stats().NonZero, w.Components())
	// Output:
	// [{1 0.5} {2 0.5}]
	// 8 [[0 1 2 3]]
}
