package ring

import (
	"encoding/binary"
	"fmt"

	"github.com/tuneinsight/lwecore/utils/sampling"
)

// Sampler is an interface for random word samplers.
// Read fills its argument according to the Sampler's distribution.
type Sampler interface {
	Read(pol []uint64)
	ReadNew(N int) (pol []uint64)
}

// NewSampler instantiates a new Sampler for the distribution X reading from prng.
func NewSampler(prng sampling.PRNG, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case DiscreteGaussian:
		if !(X.Sigma > 0) || !(X.Bound > 0) {
			return nil, fmt.Errorf("invalid distribution: DiscreteGaussian Sigma and Bound must be positive but have %v", X)
		}
		return NewGaussianSampler(prng, X), nil
	case Binary:
		return NewBinarySampler(prng), nil
	case Uniform:
		return NewUniformSampler(prng), nil
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.DiscreteGaussian, ring.Binary or ring.Uniform but have %T", X)
	}
}

type baseSampler struct {
	prng sampling.PRNG
}

type randomBuffer struct {
	randomBufferN []byte
	ptr           int
}

func newRandomBuffer() *randomBuffer {
	return &randomBuffer{
		randomBufferN: make([]byte, 1024),
		ptr:           1024,
	}
}

// next returns the next 8 bytes of the buffer, refilling it from prng when exhausted.
func (b *randomBuffer) next(prng sampling.PRNG) uint64 {
	if b.ptr == len(b.randomBufferN) {
		if _, err := prng.Read(b.randomBufferN); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		b.ptr = 0
	}
	x := binary.LittleEndian.Uint64(b.randomBufferN[b.ptr:])
	b.ptr += 8
	return x
}
