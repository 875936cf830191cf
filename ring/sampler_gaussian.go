package ring

import (
	"math"
	"math/rand/v2"

	"github.com/tuneinsight/lwecore/utils/sampling"
)

// GaussianSampler samples torus noise from a truncated discrete Gaussian
// distribution and returns it as words of Z_{2^64}.
type GaussianSampler struct {
	baseSampler
	source *rand.Rand
	xe     DiscreteGaussian
}

// NewGaussianSampler creates a new instance of GaussianSampler from a PRNG
// and the distribution parameters. Sigma and Bound are fractions of 2^64
// and must be positive.
func NewGaussianSampler(prng sampling.PRNG, X DiscreteGaussian) (g *GaussianSampler) {
	return &GaussianSampler{
		baseSampler: baseSampler{prng: prng},
		source:      rand.New(sampling.NewSource(prng)),
		xe:          X,
	}
}

// Read fills pol with noise words.
func (g *GaussianSampler) Read(pol []uint64) {
	for i := range pol {
		pol[i] = g.sample()
	}
}

// ReadNew returns N new noise words.
func (g *GaussianSampler) ReadNew(N int) (pol []uint64) {
	pol = make([]uint64, N)
	g.Read(pol)
	return
}

// Sample returns a single noise word.
func (g *GaussianSampler) Sample() uint64 {
	return g.sample()
}

func (g *GaussianSampler) sample() uint64 {

	var t float64
	for {
		if t = g.source.NormFloat64() * g.xe.Sigma; math.Abs(t) <= g.xe.Bound {
			break
		}
	}

	w := FromTorus(t)

	// A float64 carries 53 bits of precision: when t * 2^64 exceeds 2^53,
	// the bits below its ulp are drawn uniformly and centered.
	if v := math.Abs(t) * twoTo64; v >= twoTo53 {
		_, exp := math.Frexp(v)
		if shift := exp - 53; shift > 0 {
			if shift > 63 {
				shift = 63
			}
			mask := uint64(1)<<shift - 1
			w += g.source.Uint64()&mask - uint64(1)<<(shift-1)
		}
	}

	return w
}
