// SPDX-License-Identifier: MIT

// Package weights builds SpatialWeights, the sparse neighbor graph consumed by
// the spatial regression estimators.
//
// Three strategies share one capability (Strategy.Build) and one output type:
//
//	FileStrategy       - persisted *.swm resource, filtered to the active set.
//	ContiguityStrategy - polygon contiguity (ROOK / QUEEN) via a
//	                     geometry.ContiguityFinder, implicit weight 1.
//	DistanceStrategy   - inverse-distance, fixed band, k-nearest or Delaunay
//	                     via a geometry.ProximitySearcher.
//
// Every master identifier is translated through a registry.Registry. Ids
// outside the active set are dropped individually; a row left with no
// neighbors is omitted entirely, so "absent row" always means "no
// neighbors". A SpatialWeights is immutable once built.
//
// Row standardization is a flag on the result: stored weights stay raw and
// Row/Lag/ToDense divide by the row total when the flag is set. The file
// strategy restores raw weights from row-standardized files by multiplying
// with the stored pre-standardization row sum, so all three strategies
// re-normalize the same way after filtering.
//
// Snapshots of a built SpatialWeights (plus its registry) can be persisted
// with WriteSnapshot/ReadSnapshot (msgpack).
package weights
