package lwe

import (
	"unsafe"

	"github.com/tuneinsight/lwecore/ring"
)

// DiscardEncryptRaw is [Engine.DiscardEncrypt] on sk.Dimension()+1 words starting at out.
func (e *Engine) DiscardEncryptRaw(sk *SecretKey, out unsafe.Pointer, pt uint64, variance float64) (err error) {

	const op = "DiscardEncryptRaw"

	if err = e.checkKey(op, sk); err != nil {
		return
	}

	if err = checkVariance(op, variance); err != nil {
		return
	}

	o, err := e.checkPointer(op, out, sk.Dimension()+1)
	if err != nil {
		return
	}

	e.encrypt(sk.value, o, pt, variance)

	return
}

// DecryptRaw is [Engine.Decrypt] on sk.Dimension()+1 words starting at in.
func (e *Engine) DecryptRaw(sk *SecretKey, in unsafe.Pointer) (pt uint64, err error) {

	const op = "DecryptRaw"

	if err = e.checkKey(op, sk); err != nil {
		return
	}

	i, err := e.checkPointer(op, in, sk.Dimension()+1)
	if err != nil {
		return
	}

	return decrypt(sk.value, i), nil
}

// DiscardMulCleartextRaw is [Engine.DiscardMulCleartext] on two buffers of dimension+1 words.
func (e *Engine) DiscardMulCleartextRaw(out, in unsafe.Pointer, dimension int, scalar uint64) (err error) {

	o, i, err := e.checkRawUnary("DiscardMulCleartextRaw", out, in, dimension)
	if err != nil {
		return
	}

	mulCleartext(o, i, scalar)

	return
}

// DiscardAddPlaintextRaw is [Engine.DiscardAddPlaintext] on two buffers of dimension+1 words.
func (e *Engine) DiscardAddPlaintextRaw(out, in unsafe.Pointer, dimension int, pt uint64) (err error) {

	o, i, err := e.checkRawUnary("DiscardAddPlaintextRaw", out, in, dimension)
	if err != nil {
		return
	}

	addPlaintext(o, i, pt)

	return
}

// DiscardOppositeRaw is [Engine.DiscardOpposite] on two buffers of dimension+1 words.
func (e *Engine) DiscardOppositeRaw(out, in unsafe.Pointer, dimension int) (err error) {

	o, i, err := e.checkRawUnary("DiscardOppositeRaw", out, in, dimension)
	if err != nil {
		return
	}

	ring.NegVec(i, o)

	return
}

// DiscardTrivialEncryptRaw is [Engine.DiscardTrivialEncrypt] on dimension+1 words starting at out.
func (e *Engine) DiscardTrivialEncryptRaw(out unsafe.Pointer, dimension int, pt uint64) (err error) {

	o, err := e.checkPointer("DiscardTrivialEncryptRaw", out, dimension+1)
	if err != nil {
		return
	}

	trivialEncrypt(o, pt)

	return
}

// DiscardCopyRaw is [Engine.DiscardCopy] on two buffers of dimension+1 words.
func (e *Engine) DiscardCopyRaw(out, in unsafe.Pointer, dimension int) (err error) {

	o, i, err := e.checkRawUnary("DiscardCopyRaw", out, in, dimension)
	if err != nil {
		return
	}

	copy(o, i)

	return
}

func (e *Engine) checkRawUnary(op string, out, in unsafe.Pointer, dimension int) (o, i []uint64, err error) {

	if o, err = e.checkPointer(op, out, dimension+1); err != nil {
		return nil, nil, err
	}

	if i, err = e.checkPointer(op, in, dimension+1); err != nil {
		return nil, nil, err
	}

	if err = checkSameSize(op, o, i); err != nil {
		return nil, nil, err
	}

	return
}
