package lwe

import (
	"unsafe"

	"github.com/tuneinsight/lwecore/ring"
)

// UncheckedEngine is the unchecked layer of an [Engine]: the same operations
// without validation and without error returns. Violating the preconditions
// documented on [Engine] is undefined: the call may panic or write garbage.
// With valid inputs both layers produce identical results and consume the
// same randomness.
type UncheckedEngine struct {
	*Engine
}

// GenerateSecretKey is [Engine.GenerateSecretKey] without validation.
func (u UncheckedEngine) GenerateSecretKey(dimension int) *SecretKey {
	return u.generateSecretKey(dimension)
}

// CreateCiphertext is [Engine.CreateCiphertext] without validation.
func (u UncheckedEngine) CreateCiphertext(dimension int) *Ciphertext {
	return u.createCiphertextFrom(make([]uint64, dimension+1))
}

// CreateCiphertextFrom is [Engine.CreateCiphertextFrom] without validation.
func (u UncheckedEngine) CreateCiphertextFrom(value []uint64) *Ciphertext {
	return u.createCiphertextFrom(value)
}

// CreateCiphertextView is [Engine.CreateCiphertextView] without validation.
func (u UncheckedEngine) CreateCiphertextView(value []uint64) *CiphertextView {
	return u.createCiphertextView(value)
}

// CreateCiphertextMutView is [Engine.CreateCiphertextMutView] without validation.
func (u UncheckedEngine) CreateCiphertextMutView(value []uint64) *CiphertextMutView {
	return u.createCiphertextMutView(value)
}

// CreateCiphertextViewFromPointer is [Engine.CreateCiphertextViewFromPointer] without validation.
func (u UncheckedEngine) CreateCiphertextViewFromPointer(ptr unsafe.Pointer, length int) *CiphertextView {
	return u.createCiphertextView(rawWords(ptr, length))
}

// CreateCiphertextMutViewFromPointer is [Engine.CreateCiphertextMutViewFromPointer] without validation.
func (u UncheckedEngine) CreateCiphertextMutViewFromPointer(ptr unsafe.Pointer, length int) *CiphertextMutView {
	return u.createCiphertextMutView(rawWords(ptr, length))
}

// DiscardEncrypt is [Engine.DiscardEncrypt] without validation.
func (u UncheckedEngine) DiscardEncrypt(sk *SecretKey, out CiphertextWriter, pt uint64, variance float64) {
	u.encrypt(sk.value, out.mutable().value, pt, variance)
}

// Decrypt is [Engine.Decrypt] without validation.
func (u UncheckedEngine) Decrypt(sk *SecretKey, in CiphertextReader) uint64 {
	return decrypt(sk.value, in.base().value)
}

// DiscardMulCleartext is [Engine.DiscardMulCleartext] without validation.
func (u UncheckedEngine) DiscardMulCleartext(out CiphertextWriter, in CiphertextReader, scalar uint64) {
	mulCleartext(out.mutable().value, in.base().value, scalar)
}

// DiscardAddPlaintext is [Engine.DiscardAddPlaintext] without validation.
func (u UncheckedEngine) DiscardAddPlaintext(out CiphertextWriter, in CiphertextReader, pt uint64) {
	addPlaintext(out.mutable().value, in.base().value, pt)
}

// DiscardOpposite is [Engine.DiscardOpposite] without validation.
func (u UncheckedEngine) DiscardOpposite(out CiphertextWriter, in CiphertextReader) {
	ring.NegVec(in.base().value, out.mutable().value)
}

// DiscardTrivialEncrypt is [Engine.DiscardTrivialEncrypt] without validation.
func (u UncheckedEngine) DiscardTrivialEncrypt(out CiphertextWriter, pt uint64) {
	trivialEncrypt(out.mutable().value, pt)
}

// DiscardCopy is [Engine.DiscardCopy] without validation.
func (u UncheckedEngine) DiscardCopy(out CiphertextWriter, in CiphertextReader) {
	copy(out.mutable().value, in.base().value)
}

// DiscardEncryptRaw is [Engine.DiscardEncryptRaw] without validation.
func (u UncheckedEngine) DiscardEncryptRaw(sk *SecretKey, out unsafe.Pointer, pt uint64, variance float64) {
	u.encrypt(sk.value, rawWords(out, len(sk.value)+1), pt, variance)
}

// DecryptRaw is [Engine.DecryptRaw] without validation.
func (u UncheckedEngine) DecryptRaw(sk *SecretKey, in unsafe.Pointer) uint64 {
	return decrypt(sk.value, rawWords(in, len(sk.value)+1))
}

// DiscardMulCleartextRaw is [Engine.DiscardMulCleartextRaw] without validation.
func (u UncheckedEngine) DiscardMulCleartextRaw(out, in unsafe.Pointer, dimension int, scalar uint64) {
	mulCleartext(rawWords(out, dimension+1), rawWords(in, dimension+1), scalar)
}

// DiscardAddPlaintextRaw is [Engine.DiscardAddPlaintextRaw] without validation.
func (u UncheckedEngine) DiscardAddPlaintextRaw(out, in unsafe.Pointer, dimension int, pt uint64) {
	addPlaintext(rawWords(out, dimension+1), rawWords(in, dimension+1), pt)
}

// DiscardOppositeRaw is [Engine.DiscardOppositeRaw] without validation.
func (u UncheckedEngine) DiscardOppositeRaw(out, in unsafe.Pointer, dimension int) {
	ring.NegVec(rawWords(in, dimension+1), rawWords(out, dimension+1))
}

// DiscardTrivialEncryptRaw is [Engine.DiscardTrivialEncryptRaw] without validation.
func (u UncheckedEngine) DiscardTrivialEncryptRaw(out unsafe.Pointer, dimension int, pt uint64) {
	trivialEncrypt(rawWords(out, dimension+1), pt)
}

// DiscardCopyRaw is [Engine.DiscardCopyRaw] without validation.
func (u UncheckedEngine) DiscardCopyRaw(out, in unsafe.Pointer, dimension int) {
	copy(rawWords(out, dimension+1), rawWords(in, dimension+1))
}

func rawWords(ptr unsafe.Pointer, length int) []uint64 {
	/* #nosec G103 -- the caller vouches for ptr and length */
	return unsafe.Slice((*uint64)(ptr), length)
}
