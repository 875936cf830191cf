package lwe

import (
	"bufio"
	"fmt"
	"io"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lwecore/utils"
	"github.com/tuneinsight/lwecore/utils/buffer"
)

// CiphertextReader is implemented by every ciphertext buffer that can be read:
// [*Ciphertext], [*CiphertextView] and [*CiphertextMutView].
type CiphertextReader interface {
	Dimension() int
	At(i int) uint64
	BinarySize() int
	WriteTo(w io.Writer) (n int64, err error)
	MarshalBinary() (p []byte, err error)
	Equal(other CiphertextReader) bool
	base() *words
}

// CiphertextWriter is implemented by the ciphertext buffers that can be written:
// [*Ciphertext] and [*CiphertextMutView].
type CiphertextWriter interface {
	CiphertextReader
	Set(i int, w uint64)
	mutable() *words
}

// words is the state shared by the ciphertext buffers.
type words struct {
	object
	value []uint64
}

// Dimension returns the number of mask words of the ciphertext.
func (c *words) Dimension() int {
	return len(c.value) - 1
}

// At returns the i-th word of the ciphertext, the body is at index Dimension().
func (c *words) At(i int) uint64 {
	return c.value[i]
}

// Mask returns a copy of the mask words.
func (c *words) Mask() []uint64 {
	return append([]uint64{}, c.value[:len(c.value)-1]...)
}

// Body returns the body word.
func (c *words) Body() uint64 {
	return c.value[len(c.value)-1]
}

// Equal performs a deep equal on the words of the two ciphertexts.
func (c *words) Equal(other CiphertextReader) bool {
	if other == nil {
		return false
	}
	o := other.base()
	return o != nil && cmp.Equal(c.value, o.value)
}

// BinarySize returns the serialized size of the object in bytes.
func (c *words) BinarySize() int {
	return 8 + 8*len(c.value)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see lwecore/utils/buffer/writer.go),
// it will be wrapped into a bufio.Writer.
func (c *words) WriteTo(w io.Writer) (n int64, err error) {

	if !c.alive() {
		return 0, fmt.Errorf("cannot WriteTo: ciphertext: %w", ErrUseAfterFree)
	}

	switch w := w.(type) {
	case buffer.Writer:
		return writeWords(w, c.value)
	default:
		return c.WriteTo(bufio.NewWriter(w))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (c *words) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(c.BinarySize())
	_, err = c.WriteTo(buf)
	return buf.Bytes(), err
}

func (c *words) destroy(kind string) error {

	if c.destroyed {
		return fmt.Errorf("cannot Destroy: %s: %w", kind, ErrUseAfterFree)
	}

	c.value = nil
	c.release()

	return nil
}

// Ciphertext is an LWE ciphertext backed by memory it owns.
type Ciphertext struct {
	words
}

// CiphertextView is a read-only ciphertext over memory owned by the caller.
type CiphertextView struct {
	words
}

// CiphertextMutView is a read-write ciphertext over memory owned by the caller.
type CiphertextMutView struct {
	words
}

func (ct *Ciphertext) base() *words {
	if ct == nil {
		return nil
	}
	return &ct.words
}

func (ct *Ciphertext) mutable() *words {
	return ct.base()
}

// Set sets the i-th word of the ciphertext.
func (ct *Ciphertext) Set(i int, w uint64) {
	ct.value[i] = w
}

// Words returns the backing slice of the ciphertext.
func (ct *Ciphertext) Words() []uint64 {
	return ct.value
}

// Destroy releases the memory of the ciphertext.
// Destroying a ciphertext twice returns ErrUseAfterFree.
func (ct *Ciphertext) Destroy() error {
	return ct.destroy("ciphertext")
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. The ciphertext is resized to the decoded dimension.
//
// Unless r implements the buffer.Reader interface (see lwecore/utils/buffer/reader.go),
// it will be wrapped into a bufio.Reader.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {

	if !ct.alive() {
		return 0, fmt.Errorf("cannot ReadFrom: ciphertext: %w", ErrUseAfterFree)
	}

	switch r := r.(type) {
	case buffer.Reader:
		value := ct.value
		if n, err = readWords(r, &value, 2, maxWords); err != nil {
			return
		}
		ct.value = value
		return
	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinary(p []byte) (err error) {
	_, err = ct.ReadFrom(buffer.NewBuffer(p))
	return
}

func (v *CiphertextView) base() *words {
	if v == nil {
		return nil
	}
	return &v.words
}

// Destroy releases the view. The underlying memory is left untouched.
func (v *CiphertextView) Destroy() error {
	return v.destroy("ciphertext view")
}

func (v *CiphertextMutView) base() *words {
	if v == nil {
		return nil
	}
	return &v.words
}

func (v *CiphertextMutView) mutable() *words {
	return v.base()
}

// Set sets the i-th word of the ciphertext.
func (v *CiphertextMutView) Set(i int, w uint64) {
	v.value[i] = w
}

// Destroy releases the view. The underlying memory is left untouched.
func (v *CiphertextMutView) Destroy() error {
	return v.destroy("ciphertext mutable view")
}

// CreateCiphertext allocates a new zero ciphertext of the given dimension.
func (e *Engine) CreateCiphertext(dimension int) (*Ciphertext, error) {

	if err := e.checkAlive("CreateCiphertext"); err != nil {
		return nil, err
	}

	if dimension <= 0 || dimension >= maxWords {
		return nil, fmt.Errorf("cannot CreateCiphertext: dimension must be in [1, %d) but is %d: %w", maxWords, dimension, ErrInvalidParameter)
	}

	return e.createCiphertextFrom(make([]uint64, dimension+1)), nil
}

// CreateCiphertextFrom creates a new ciphertext that takes ownership of value.
// value must hold at least two words.
func (e *Engine) CreateCiphertextFrom(value []uint64) (*Ciphertext, error) {

	if err := e.checkWords("CreateCiphertextFrom", value); err != nil {
		return nil, err
	}

	return e.createCiphertextFrom(value), nil
}

// UnmarshalCiphertext creates a new engine-tracked ciphertext from its binary representation.
func (e *Engine) UnmarshalCiphertext(data []byte) (*Ciphertext, error) {

	if err := e.checkAlive("UnmarshalCiphertext"); err != nil {
		return nil, err
	}

	ct := new(Ciphertext)
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("cannot UnmarshalCiphertext: %w", err)
	}

	ct.object = e.track()

	return ct, nil
}

// CreateCiphertextView creates a read-only view over value.
// value must hold at least two words.
func (e *Engine) CreateCiphertextView(value []uint64) (*CiphertextView, error) {

	if err := e.checkWords("CreateCiphertextView", value); err != nil {
		return nil, err
	}

	return e.createCiphertextView(value), nil
}

// CreateCiphertextMutView creates a read-write view over value.
// value must hold at least two words.
func (e *Engine) CreateCiphertextMutView(value []uint64) (*CiphertextMutView, error) {

	if err := e.checkWords("CreateCiphertextMutView", value); err != nil {
		return nil, err
	}

	return e.createCiphertextMutView(value), nil
}

// CreateCiphertextViewFromPointer creates a read-only view over length words starting at ptr.
// ptr must be non-nil and 8-byte aligned, and length at least two.
func (e *Engine) CreateCiphertextViewFromPointer(ptr unsafe.Pointer, length int) (*CiphertextView, error) {

	value, err := e.checkPointer("CreateCiphertextViewFromPointer", ptr, length)
	if err != nil {
		return nil, err
	}

	return e.createCiphertextView(value), nil
}

// CreateCiphertextMutViewFromPointer creates a read-write view over length words starting at ptr.
// ptr must be non-nil and 8-byte aligned, and length at least two.
func (e *Engine) CreateCiphertextMutViewFromPointer(ptr unsafe.Pointer, length int) (*CiphertextMutView, error) {

	value, err := e.checkPointer("CreateCiphertextMutViewFromPointer", ptr, length)
	if err != nil {
		return nil, err
	}

	return e.createCiphertextMutView(value), nil
}

func (e *Engine) createCiphertextFrom(value []uint64) *Ciphertext {
	return &Ciphertext{words{object: e.track(), value: value}}
}

func (e *Engine) createCiphertextView(value []uint64) *CiphertextView {
	return &CiphertextView{words{object: e.track(), value: value}}
}

func (e *Engine) createCiphertextMutView(value []uint64) *CiphertextMutView {
	return &CiphertextMutView{words{object: e.track(), value: value}}
}

func (e *Engine) checkWords(op string, value []uint64) error {

	if err := e.checkAlive(op); err != nil {
		return err
	}

	if len(value) < 2 {
		return fmt.Errorf("cannot %s: a ciphertext holds at least 2 words but have %d: %w", op, len(value), ErrSizeMismatch)
	}

	if len(value) > maxWords {
		return fmt.Errorf("cannot %s: a ciphertext holds at most %d words but have %d: %w", op, maxWords, len(value), ErrInvalidParameter)
	}

	return nil
}

func (e *Engine) checkPointer(op string, ptr unsafe.Pointer, length int) ([]uint64, error) {

	if err := e.checkAlive(op); err != nil {
		return nil, err
	}

	if !utils.IsAligned(ptr, 8) {
		return nil, fmt.Errorf("cannot %s: %p: %w", op, ptr, ErrNullOrMisalignedPointer)
	}

	if length < 2 {
		return nil, fmt.Errorf("cannot %s: a ciphertext holds at least 2 words but have %d: %w", op, length, ErrSizeMismatch)
	}

	if length > maxWords {
		return nil, fmt.Errorf("cannot %s: a ciphertext holds at most %d words but have %d: %w", op, maxWords, length, ErrInvalidParameter)
	}

	return rawWords(ptr, length), nil
}
