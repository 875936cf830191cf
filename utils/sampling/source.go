package sampling

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Source adapts a [PRNG] to the math/rand/v2 Source interface so that
// rand.New(source) draws its values from the PRNG stream.
type Source struct {
	PRNG
	buf [8]byte
}

// NewSource creates a new [Source] reading from prng.
func NewSource(prng PRNG) *Source {
	return &Source{PRNG: prng}
}

// Uint64 returns the next 8 bytes of the stream as a little-endian uint64.
// It panics if the underlying PRNG fails: the stream cannot be resumed
// in a consistent state.
func (s *Source) Uint64() uint64 {
	if _, err := io.ReadFull(s.PRNG, s.buf[:]); err != nil {
		// Sanity check, this error should not happen with the PRNGs of this package.
		panic(fmt.Errorf("cannot Uint64: %w", err))
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}
