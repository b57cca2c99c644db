// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major storage used for regression
// design matrices and for materialized spatial weights.
//
// Dense keeps the explicit index formula i*cols + j, returns sentinel errors
// instead of panicking at its public surface, and iterates in a fixed
// row-then-column order so every reduction (RowSums, MatVec) is
// deterministic.
//
// Errors:
//
//	ErrInvalidDimensions - requested shape has a non-positive side.
//	ErrOutOfRange        - row or column index outside the matrix.
//	ErrDimensionMismatch - operand lengths do not agree.
//	ErrNaNInf            - non-finite value rejected by Set.
package matrix
