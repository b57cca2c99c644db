// SPDX-License-Identifier: MIT

// Package swm reads and writes the sparse spatial weights matrix (*.swm)
// binary layout: a sequential, forward-only stream of per-observation
// neighbor records keyed by master identifier.
//
// Layout (all numbers little endian):
//
//	header line   "VERSION@<version>@<masterField>@<fixed>\n"
//	              (legacy: "<masterField>@<fixed>\n")
//	int32         numObs
//	int32         rowStandard (0 or 1)
//	numObs × record:
//	    int32     masterID
//	    int32     nn
//	    nn×int32  neighbor master ids        (only when nn > 0)
//	    weights   1×float64 if fixed, else nn×float64
//	    float64   row sum before standardization
//
// A Reader owns its underlying handle; Close releases it and is safe to call
// more than once.
package swm
