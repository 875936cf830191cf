package ring

import (
	"github.com/tuneinsight/lwecore/utils/sampling"
)

// BinarySampler samples words uniformly in {0, 1}.
type BinarySampler struct {
	baseSampler
	*randomBuffer
	bits  uint64
	nbits int
}

// NewBinarySampler creates a new instance of BinarySampler from a PRNG.
func NewBinarySampler(prng sampling.PRNG) *BinarySampler {
	return &BinarySampler{
		baseSampler:  baseSampler{prng: prng},
		randomBuffer: newRandomBuffer(),
	}
}

func (b *BinarySampler) bit() uint64 {
	if b.nbits == 0 {
		b.bits = b.next(b.prng)
		b.nbits = 64
	}
	x := b.bits & 1
	b.bits >>= 1
	b.nbits--
	return x
}

// Read fills pol with words in {0, 1}.
func (b *BinarySampler) Read(pol []uint64) {
	for i := range pol {
		pol[i] = b.bit()
	}
}

// ReadNew returns N new words in {0, 1}.
func (b *BinarySampler) ReadNew(N int) (pol []uint64) {
	pol = make([]uint64, N)
	b.Read(pol)
	return
}
