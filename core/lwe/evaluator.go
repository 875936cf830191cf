package lwe

import (
	"fmt"

	"github.com/tuneinsight/lwecore/ring"
	"github.com/tuneinsight/lwecore/utils"
)

// DiscardEncrypt encrypts pt under sk and overwrites out with the result.
// The mask is drawn uniformly and the body is pt + <mask, sk> + e, where e is
// drawn from [NoiseDistribution] of the given variance.
// out must hold sk.Dimension()+1 words and variance must be finite and positive.
func (e *Engine) DiscardEncrypt(sk *SecretKey, out CiphertextWriter, pt uint64, variance float64) (err error) {

	const op = "DiscardEncrypt"

	o := writerOf(out)
	if err = e.checkKeyAndOperands(op, sk, o); err != nil {
		return
	}

	if err = checkVariance(op, variance); err != nil {
		return
	}

	if err = checkKeySize(op, sk, o.value); err != nil {
		return
	}

	e.encrypt(sk.value, o.value, pt, variance)

	return
}

// Decrypt returns the plaintext b - <mask, sk> of in. It neither consumes
// randomness nor modifies in.
func (e *Engine) Decrypt(sk *SecretKey, in CiphertextReader) (pt uint64, err error) {

	const op = "Decrypt"

	i := readerOf(in)
	if err = e.checkKeyAndOperands(op, sk, i); err != nil {
		return
	}

	if err = checkKeySize(op, sk, i.value); err != nil {
		return
	}

	return decrypt(sk.value, i.value), nil
}

// DiscardMulCleartext overwrites out with in * scalar, word by word, mod 2^64.
// The prior content of out is not read. out and in may be the same buffer,
// but must not partially overlap.
func (e *Engine) DiscardMulCleartext(out CiphertextWriter, in CiphertextReader, scalar uint64) (err error) {

	o, i := writerOf(out), readerOf(in)
	if err = e.checkUnary("DiscardMulCleartext", o, i); err != nil {
		return
	}

	mulCleartext(o.value, i.value, scalar)

	return
}

// DiscardAddPlaintext overwrites out with in and adds pt to its body.
func (e *Engine) DiscardAddPlaintext(out CiphertextWriter, in CiphertextReader, pt uint64) (err error) {

	o, i := writerOf(out), readerOf(in)
	if err = e.checkUnary("DiscardAddPlaintext", o, i); err != nil {
		return
	}

	addPlaintext(o.value, i.value, pt)

	return
}

// DiscardOpposite overwrites out with -in.
func (e *Engine) DiscardOpposite(out CiphertextWriter, in CiphertextReader) (err error) {

	o, i := writerOf(out), readerOf(in)
	if err = e.checkUnary("DiscardOpposite", o, i); err != nil {
		return
	}

	ring.NegVec(i.value, o.value)

	return
}

// DiscardTrivialEncrypt overwrites out with the noiseless encryption of pt under
// any key: a zero mask and pt as body.
// WARNING: the result is NOT secure, it is meant for public constants.
func (e *Engine) DiscardTrivialEncrypt(out CiphertextWriter, pt uint64) (err error) {

	o := writerOf(out)
	if err = e.checkOperands("DiscardTrivialEncrypt", o); err != nil {
		return
	}

	trivialEncrypt(o.value, pt)

	return
}

// DiscardCopy overwrites out with in.
func (e *Engine) DiscardCopy(out CiphertextWriter, in CiphertextReader) (err error) {

	o, i := writerOf(out), readerOf(in)
	if err = e.checkUnary("DiscardCopy", o, i); err != nil {
		return
	}

	copy(o.value, i.value)

	return
}

func (e *Engine) encrypt(sk, ct []uint64, pt uint64, variance float64) {
	d := len(ct) - 1
	e.uniform.Read(ct[:d])
	ct[d] = pt + ring.Dot(ct[:d], sk) + e.noiseSampler(variance).Sample()
}

func decrypt(sk, ct []uint64) uint64 {
	d := len(ct) - 1
	return ct[d] - ring.Dot(ct[:d], sk)
}

func mulCleartext(out, in []uint64, scalar uint64) {
	ring.MulScalarVec(in, scalar, out)
}

func addPlaintext(out, in []uint64, pt uint64) {
	copy(out, in)
	out[len(out)-1] += pt
}

func trivialEncrypt(out []uint64, pt uint64) {
	d := len(out) - 1
	utils.Zero(out[:d])
	out[d] = pt
}

func writerOf(c CiphertextWriter) *words {
	if c == nil {
		return nil
	}
	return c.mutable()
}

func readerOf(c CiphertextReader) *words {
	if c == nil {
		return nil
	}
	return c.base()
}

// checkOperands checks that the buffers are non-nil and alive.
func (e *Engine) checkOperands(op string, operands ...*words) error {

	objs := make([]*object, len(operands))
	for j, c := range operands {
		if c == nil {
			return fmt.Errorf("cannot %s: ciphertext is nil: %w", op, ErrNullOrMisalignedPointer)
		}
		objs[j] = &c.object
	}

	return e.checkAlive(op, objs...)
}

func (e *Engine) checkKey(op string, sk *SecretKey) error {

	if sk == nil {
		return fmt.Errorf("cannot %s: secret key is nil: %w", op, ErrNullOrMisalignedPointer)
	}

	return e.checkAlive(op, &sk.object)
}

func (e *Engine) checkKeyAndOperands(op string, sk *SecretKey, c *words) error {

	if err := e.checkKey(op, sk); err != nil {
		return err
	}

	return e.checkOperands(op, c)
}

// checkUnary checks the operands of an operation writing a function of in on out.
func (e *Engine) checkUnary(op string, out, in *words) error {

	if err := e.checkOperands(op, out, in); err != nil {
		return err
	}

	return checkSameSize(op, out.value, in.value)
}

func checkSameSize(op string, out, in []uint64) error {

	if len(out) != len(in) {
		return fmt.Errorf("cannot %s: len(out)=%d != len(in)=%d: %w", op, len(out), len(in), ErrSizeMismatch)
	}

	if len(out) < 2 {
		return fmt.Errorf("cannot %s: a ciphertext holds at least 2 words but have %d: %w", op, len(out), ErrSizeMismatch)
	}

	if utils.Overlap1D(out, in) && !utils.SameStart(out, in) {
		return fmt.Errorf("cannot %s: out and in partially overlap: %w", op, ErrInvalidParameter)
	}

	return nil
}

func checkKeySize(op string, sk *SecretKey, ct []uint64) error {
	if len(ct) != sk.Dimension()+1 {
		return fmt.Errorf("cannot %s: ciphertext holds %d words but the key requires %d: %w", op, len(ct), sk.Dimension()+1, ErrSizeMismatch)
	}
	return nil
}

func checkVariance(op string, variance float64) error {
	if !validVariance(variance) {
		return fmt.Errorf("cannot %s: variance must be finite and positive but is %v: %w", op, variance, ErrInvalidParameter)
	}
	return nil
}
