package ring

import (
	"github.com/tuneinsight/lwecore/utils/sampling"
)

// UniformSampler samples words uniformly in Z_{2^64}.
type UniformSampler struct {
	baseSampler
	*randomBuffer
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG.
func NewUniformSampler(prng sampling.PRNG) (u *UniformSampler) {
	return &UniformSampler{
		baseSampler:  baseSampler{prng: prng},
		randomBuffer: newRandomBuffer(),
	}
}

// Read fills pol with uniform words.
func (u *UniformSampler) Read(pol []uint64) {
	for i := range pol {
		pol[i] = u.next(u.prng)
	}
}

// ReadNew returns N new uniform words.
func (u *UniformSampler) ReadNew(N int) (pol []uint64) {
	pol = make([]uint64, N)
	u.Read(pol)
	return
}
