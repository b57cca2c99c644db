// SPDX-License-Identifier: MIT

// Package geometry declares the geometric collaborators the weights builders
// delegate to, and ships small reference implementations of them.
//
// Contracts:
//
//	ContiguityFinder  - polygon adjacency keyed by master id (ROOK / QUEEN).
//	ProximitySearcher - inverse-distance, fixed-band, k-nearest or Delaunay
//	                    search returning (order id, weight) rows in dense
//	                    order-id space.
//
// ValidateDistanceMethod resolves a requested metric against the coordinate
// reference system: geographic coordinates always use chordal distance.
//
// Reference implementations:
//
//	Lattice       - rook (4-connectivity) / queen (8-connectivity) over a
//	                regular rows×cols grid of cells.
//	PointSearcher - brute-force O(n²) point search; no Delaunay support.
//
// Real GIS back ends plug in by implementing the two interfaces.
package geometry
