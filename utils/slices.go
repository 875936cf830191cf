package utils

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Overlap1D returns true if the memory ranges covered by x and y intersect.
// Two disjoint windows over the same base array do not overlap.
func Overlap1D[V any](x, y []V) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}
	var v V
	size := unsafe.Sizeof(v)
	/* #nosec G103 -- address comparison only */
	x0, y0 := uintptr(unsafe.Pointer(&x[0])), uintptr(unsafe.Pointer(&y[0]))
	return x0 < y0+uintptr(len(y))*size && y0 < x0+uintptr(len(x))*size
}

// SameStart returns true if x and y start at the same address.
func SameStart[V any](x, y []V) bool {
	return len(x) > 0 && len(y) > 0 && &x[0] == &y[0]
}

// Zero sets all elements of s to zero.
func Zero[V constraints.Integer | constraints.Float](s []V) {
	for i := range s {
		s[i] = 0
	}
}
