// SPDX-License-Identifier: MIT

// Package registry maps externally stable master identifiers onto the dense
// zero-based order ids used by every numeric structure in spreg.
//
// The mapping is an arena plus a dense index: order ids are slice positions
// in masters, and index is the lookup table from master id to position. An id
// outside the active set is a plain lookup miss (Order returns ok=false);
// callers decide whether a miss is recoverable (drop the neighbor) or fatal.
//
// A Registry is immutable after New and safe for concurrent reads.
package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyField indicates that the master identifier field name is empty.
	ErrEmptyField = errors.New("registry: master field name is empty")

	// ErrDuplicateIdentifier indicates that the same master id appears twice
	// in the active observation set.
	ErrDuplicateIdentifier = errors.New("registry: duplicate master identifier")

	// ErrUnknownIdentifier indicates that a master id is not part of the
	// active set, or an order id lies outside [0, Len()).
	ErrUnknownIdentifier = errors.New("registry: unknown identifier")
)

// Registry is the bidirectional master id ↔ order id mapping for one
// active observation set.
type Registry struct {
	field   string        // name of the master identifier field
	masters []int64       // order id -> master id
	index   map[int64]int // master id -> order id
}

// New builds a Registry whose order ids follow the order of masters.
//
// Errors:
//   - ErrEmptyField when field is empty.
//   - ErrDuplicateIdentifier when masters contains a repeated id.
//
// Complexity: O(n) time and space.
func New(field string, masters []int64) (*Registry, error) {
	if field == "" {
		return nil, ErrEmptyField
	}
	r := &Registry{
		field:   field,
		masters: make([]int64, len(masters)),
		index:   make(map[int64]int, len(masters)),
	}
	copy(r.masters, masters)
	for order, id := range r.masters {
		if prev, dup := r.index[id]; dup {
			return nil, fmt.Errorf("New: master %d at orders %d and %d: %w", id, prev, order, ErrDuplicateIdentifier)
		}
		r.index[id] = order
	}

	return r, nil
}

// Sequential builds a Registry for n observations whose master ids are
// base, base+1, ..., base+n-1.
func Sequential(field string, base int64, n int) (*Registry, error) {
	masters := make([]int64, n)
	for i := range masters {
		masters[i] = base + int64(i)
	}

	return New(field, masters)
}

// Field returns the master identifier field name.
func (r *Registry) Field() string { return r.field }

// Len returns the number of active observations.
func (r *Registry) Len() int { return len(r.masters) }

// Order returns the order id of master and whether it is in the active set.
// Complexity: O(1).
func (r *Registry) Order(master int64) (int, bool) {
	order, ok := r.index[master]
	return order, ok
}

// Contains reports whether master belongs to the active set.
func (r *Registry) Contains(master int64) bool {
	_, ok := r.index[master]
	return ok
}

// Lookup is Order with the miss reported as ErrUnknownIdentifier.
func (r *Registry) Lookup(master int64) (int, error) {
	order, ok := r.index[master]
	if !ok {
		return 0, fmt.Errorf("Lookup(%d): %w", master, ErrUnknownIdentifier)
	}

	return order, nil
}

// Master returns the master id stored at order.
//
// Errors:
//   - ErrUnknownIdentifier when order is outside [0, Len()).
func (r *Registry) Master(order int) (int64, error) {
	if order < 0 || order >= len(r.masters) {
		return 0, fmt.Errorf("Master(%d): %w", order, ErrUnknownIdentifier)
	}

	return r.masters[order], nil
}

// Masters returns a copy of the order → master table.
func (r *Registry) Masters() []int64 {
	out := make([]int64, len(r.masters))
	copy(out, r.masters)

	return out
}
