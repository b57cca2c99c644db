// SPDX-License-Identifier: MIT
// Package weights: sentinel errors.
//
// Error policy:
//   - Fatal conditions abort the whole Build; no partial SpatialWeights is
//     returned alongside an error.
//   - Unknown identifiers are never surfaced: the neighbor or record is
//     dropped and counted in the debug log.
//   - Callers match with errors.Is; context is attached with %w.

package weights

import (
	"errors"

	"github.com/katalvlaran/spreg/geometry"
)

var (
	// ErrShapeMismatch indicates that a neighbor source covers fewer
	// observations than the active registry (persisted file with
	// NumObs < Len, coordinate or search output length != Len).
	ErrShapeMismatch = errors.New("weights: shape mismatch")

	// ErrIdentifierMismatch indicates that the persisted resource is keyed by
	// a different master field than the active registry.
	ErrIdentifierMismatch = errors.New("weights: identifier field mismatch")

	// ErrInvalidParameterCombination is geometry.ErrInvalidParameterCombination,
	// re-exported so builder callers need not import geometry to match it.
	ErrInvalidParameterCombination = geometry.ErrInvalidParameterCombination

	// ErrNilRegistry indicates Build was called without an active registry.
	ErrNilRegistry = errors.New("weights: registry is nil")

	// ErrNilCollaborator indicates a strategy without its source, finder or
	// searcher.
	ErrNilCollaborator = errors.New("weights: strategy collaborator is nil")

	// ErrLengthMismatch indicates a vector whose length differs from N().
	ErrLengthMismatch = errors.New("weights: vector length mismatch")

	// ErrSnapshotSchema indicates a snapshot written under another schema
	// version or with inconsistent contents.
	ErrSnapshotSchema = errors.New("weights: unsupported snapshot")
)
