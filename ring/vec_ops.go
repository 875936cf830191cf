package ring

import (
	"unsafe"
)

// MulScalarVec evaluates p2[i] = p1[i] * scalar mod 2^64.
// p1 and p2 may be the same slice.
func MulScalarVec(p1 []uint64, scalar uint64, p2 []uint64) {

	N := len(p1)

	if N == 0 {
		return
	}

	_ = p2[N-1]

	j := 0
	for ; j+8 <= N; j = j + 8 {

		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p1) */
		x := (*[8]uint64)(unsafe.Pointer(&p1[j]))
		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p2) */
		z := (*[8]uint64)(unsafe.Pointer(&p2[j]))

		z[0] = x[0] * scalar
		z[1] = x[1] * scalar
		z[2] = x[2] * scalar
		z[3] = x[3] * scalar
		z[4] = x[4] * scalar
		z[5] = x[5] * scalar
		z[6] = x[6] * scalar
		z[7] = x[7] * scalar
	}

	for ; j < N; j++ {
		p2[j] = p1[j] * scalar
	}
}

// NegVec evaluates p2[i] = -p1[i] mod 2^64.
func NegVec(p1, p2 []uint64) {

	N := len(p1)

	if N == 0 {
		return
	}

	_ = p2[N-1]

	j := 0
	for ; j+8 <= N; j = j + 8 {

		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p1) */
		x := (*[8]uint64)(unsafe.Pointer(&p1[j]))
		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p2) */
		z := (*[8]uint64)(unsafe.Pointer(&p2[j]))

		z[0] = -x[0]
		z[1] = -x[1]
		z[2] = -x[2]
		z[3] = -x[3]
		z[4] = -x[4]
		z[5] = -x[5]
		z[6] = -x[6]
		z[7] = -x[7]
	}

	for ; j < N; j++ {
		p2[j] = -p1[j]
	}
}

// Dot returns sum(p1[i] * p2[i]) mod 2^64 over the first len(p1) words.
func Dot(p1, p2 []uint64) (acc uint64) {

	N := len(p1)

	if N == 0 {
		return
	}

	_ = p2[N-1]

	j := 0
	for ; j+8 <= N; j = j + 8 {

		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p1) */
		x := (*[8]uint64)(unsafe.Pointer(&p1[j]))
		/* #nosec G103 -- behavior and consequences well understood, j+8 <= len(p2) */
		y := (*[8]uint64)(unsafe.Pointer(&p2[j]))

		acc += x[0]*y[0] + x[1]*y[1] + x[2]*y[2] + x[3]*y[3] +
			x[4]*y[4] + x[5]*y[5] + x[6]*y[6] + x[7]*y[7]
	}

	for ; j < N; j++ {
		acc += p1[j] * p2[j]
	}

	return
}
