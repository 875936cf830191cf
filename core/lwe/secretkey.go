package lwe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/slices"
	"github.com/tuneinsight/lwecore/utils"
	"github.com/tuneinsight/lwecore/utils/buffer"
	"github.com/tuneinsight/lwecore/utils/logging"
)

// SecretKey is a binary LWE secret key: Dimension coefficients in {0, 1}.
type SecretKey struct {
	object
	value []uint64
}

// GenerateSecretKey generates a new secret key of the given dimension with
// coefficients drawn uniformly in {0, 1}.
func (e *Engine) GenerateSecretKey(dimension int) (*SecretKey, error) {

	if err := e.checkAlive("GenerateSecretKey"); err != nil {
		return nil, err
	}

	if dimension <= 0 || dimension >= maxWords {
		return nil, fmt.Errorf("cannot GenerateSecretKey: dimension must be in [1, %d) but is %d: %w", maxWords, dimension, ErrInvalidParameter)
	}

	return e.generateSecretKey(dimension), nil
}

func (e *Engine) generateSecretKey(dimension int) *SecretKey {

	sk := &SecretKey{
		object: e.track(),
		value:  e.binary.ReadNew(dimension),
	}

	e.logger.Debug(context.Background(), "secret key generated",
		slog.Int("dimension", dimension),
		logging.Redacted("key"))

	return sk
}

// UnmarshalSecretKey creates a new engine-tracked secret key from its binary representation.
func (e *Engine) UnmarshalSecretKey(data []byte) (*SecretKey, error) {

	if err := e.checkAlive("UnmarshalSecretKey"); err != nil {
		return nil, err
	}

	sk := new(SecretKey)
	if err := sk.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("cannot UnmarshalSecretKey: %w", err)
	}

	sk.object = e.track()

	return sk, nil
}

// Dimension returns the number of coefficients of the key.
func (sk *SecretKey) Dimension() int {
	return len(sk.value)
}

// Equal performs a deep equal.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk == nil || other == nil {
		return sk == other
	}
	return cmp.Equal(sk.value, other.value)
}

// Destroy zeroizes the coefficients of the key and releases it.
// Destroying a key twice returns ErrUseAfterFree.
func (sk *SecretKey) Destroy() error {

	if sk.destroyed {
		return fmt.Errorf("cannot Destroy: secret key: %w", ErrUseAfterFree)
	}

	utils.Zero(sk.value)
	sk.value = nil
	sk.release()

	return nil
}

// BinarySize returns the serialized size of the object in bytes.
func (sk *SecretKey) BinarySize() int {
	return 8 + 8*len(sk.value)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see lwecore/utils/buffer/writer.go),
// it will be wrapped into a bufio.Writer. Since this requires allocations, it
// is preferable to pass a buffer.Writer directly:
//
//   - When writing multiple times to a io.Writer, it is preferable to first wrap the
//     io.Writer in a pre-allocated bufio.Writer.
//   - When writing to a pre-allocated var b []byte, it is preferable to pass
//     buffer.NewBuffer(b) as w (see lwecore/utils/buffer/buffer.go).
func (sk *SecretKey) WriteTo(w io.Writer) (n int64, err error) {

	if sk.destroyed {
		return 0, fmt.Errorf("cannot WriteTo: secret key: %w", ErrUseAfterFree)
	}

	switch w := w.(type) {
	case buffer.Writer:
		return writeWords(w, sk.value)
	default:
		return sk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see lwecore/utils/buffer/reader.go),
// it will be wrapped into a bufio.Reader. Since this requires allocation, it
// is preferable to pass a buffer.Reader directly:
//
//   - When reading multiple values from a io.Reader, it is preferable to first
//     wrap io.Reader in a pre-allocated bufio.Reader.
//   - When reading from a var b []byte, it is preferable to pass a buffer.NewBuffer(b)
//     as w (see lwecore/utils/buffer/buffer.go).
func (sk *SecretKey) ReadFrom(r io.Reader) (n int64, err error) {

	if !sk.alive() {
		return 0, fmt.Errorf("cannot ReadFrom: secret key: %w", ErrUseAfterFree)
	}

	switch r := r.(type) {
	case buffer.Reader:

		var value []uint64
		if n, err = readWords(r, &value, 1, maxWords-1); err != nil {
			return n, err
		}

		for _, c := range value {
			if c > 1 {
				return n, fmt.Errorf("secret key coefficient %d is not binary: %w", c, ErrInvalidParameter)
			}
		}

		sk.value = value

		return n, nil
	default:
		return sk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (sk *SecretKey) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(sk.BinarySize())
	_, err = sk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (sk *SecretKey) UnmarshalBinary(p []byte) (err error) {
	_, err = sk.ReadFrom(buffer.NewBuffer(p))
	return
}

// maxWords bounds the number of words of a ciphertext.
const maxWords = 1 << 24

// readChunk is the number of words allocated at a time when decoding.
const readChunk = 1 << 12

func writeWords(w buffer.Writer, value []uint64) (n int64, err error) {

	var inc int64
	if inc, err = buffer.WriteUint64(w, uint64(len(value))); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteUint64: %w", err)
	}

	n += inc

	if inc, err = buffer.WriteUint64Slice(w, value); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteUint64Slice: %w", err)
	}

	n += inc

	return n, w.Flush()
}

func readWords(r buffer.Reader, value *[]uint64, minWords, maxCount int) (n int64, err error) {

	var size uint64
	var inc int64
	if inc, err = buffer.ReadUint64(r, &size); err != nil {
		return n + inc, fmt.Errorf("buffer.ReadUint64: %w", err)
	}

	n += inc

	if size < uint64(minWords) || size > uint64(maxCount) {
		return n, fmt.Errorf("invalid word count %d: %w", size, ErrSizeMismatch)
	}

	if b, ok := r.(*buffer.Buffer); ok && uint64(b.Size()) < size<<3 {
		return n, fmt.Errorf("word count %d exceeds the %d remaining bytes: %w", size, b.Size(), io.ErrUnexpectedEOF)
	}

	// Allocation follows the bytes actually read.
	*value = (*value)[:0]
	for len(*value) < int(size) {

		start := len(*value)
		k := utils.Min(int(size)-start, readChunk)
		*value = slices.Grow(*value, k)[:start+k]

		if inc, err = buffer.ReadUint64Slice(r, (*value)[start:]); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint64Slice: %w", err)
		}

		n += inc
	}

	return
}
