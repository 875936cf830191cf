// Package utils implements various helper functions.
package utils

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum value of the two inputs.
func Min[V constraints.Ordered](a, b V) (r V) {
	if a <= b {
		return a
	}
	return b
}

// IsAligned returns true if ptr is a non-nil multiple of align.
// align must be a power of two.
func IsAligned(ptr unsafe.Pointer, align uintptr) bool {
	/* #nosec G103 -- address inspection only, the pointer is not dereferenced */
	return ptr != nil && uintptr(ptr)&(align-1) == 0
}
