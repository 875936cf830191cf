package buffer

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tuneinsight/lwecore/utils"
)

// ReadUint8 reads a byte from r into c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var bb = [1]byte{}

	var nint int
	if nint, err = io.ReadFull(r, bb[:]); err != nil {
		return int64(nint), err
	}

	*c = bb[0]

	return int64(nint), nil
}

// ReadUint64 reads a little-endian uint64 from r into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	var nint int
	if nint, err = io.ReadFull(r, bb[:]); err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadUint64Slice reads len(c) little-endian uint64 from r into c.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {

	for len(c) > 0 {

		size := r.Size() >> 3

		if size == 0 {
			// Fewer than 8 bytes are buffered, falls back to a single read.
			var inc int64
			if inc, err = ReadUint64(r, &c[0]); err != nil {
				return n + inc, err
			}
			n += inc
			c = c[1:]
			continue
		}

		chunk := utils.Min(len(c), size)

		var buf []byte
		if buf, err = r.Peek(chunk << 3); err != nil {
			return n, err
		}

		for i := 0; i < chunk; i++ {
			c[i] = binary.LittleEndian.Uint64(buf[i<<3:])
		}

		var inc int
		if inc, err = r.Discard(chunk << 3); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)
		c = c[chunk:]
	}

	return
}
