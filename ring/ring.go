// Package ring implements arithmetic over Z_{2^64}, the ring of 64-bit words
// with wrapping addition and multiplication, together with the samplers
// used to draw masks, secrets and noise.
package ring

import (
	"math"
)

const (
	twoTo53 = float64(1 << 53)
	twoTo63 = float64(1 << 63)
	twoTo64 = twoTo63 * 2
)

// FromTorus maps t, read as a point of the real torus R/Z, to its
// 64-bit representative round(t * 2^64) mod 2^64.
// Negative values wrap: FromTorus(-0.25) = 2^64 - 2^62.
func FromTorus(t float64) uint64 {
	r := t - math.Round(t)
	v := math.Round(r * twoTo64)
	if v >= twoTo63 {
		v = -twoTo63
	}
	return uint64(int64(v))
}

// ToTorus returns the centered torus value of x in [-0.5, 0.5).
func ToTorus(x uint64) float64 {
	return float64(int64(x)) / twoTo64
}
