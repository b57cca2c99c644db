// SPDX-License-Identifier: MIT

package weights

import "sort"

// Components groups order ids into connected components of the neighbor
// graph, treating every stored link as undirected. Islands form singleton
// components. Components are ordered by their smallest id and each one is
// sorted ascending.
//
// Time:   O(N + NonZero).
// Memory: O(N + NonZero) for the undirected adjacency.
func (w *SpatialWeights) Components() [][]int {
	adj := make([][]int, w.n)
	for i, row := range w.rows {
		for _, nb := range row {
			adj[i] = append(adj[i], nb.Order)
			adj[nb.Order] = append(adj[nb.Order], i)
		}
	}

	seen := make([]bool, w.n)
	var comps [][]int
	for start := 0; start < w.n; start++ {
		if seen[start] {
			continue
		}
		queue := []int{start}
		seen[start] = true
		for qi := 0; qi < len(queue); qi++ {
			for _, v := range adj[queue[qi]] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		sort.Ints(queue)
		comps = append(comps, queue)
	}

	return comps
}
