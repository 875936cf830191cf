// Package lwe implements encryption, decryption and discard-style homomorphic
// operations on LWE ciphertexts over Z_{2^64}.
//
// A ciphertext of dimension d is a buffer of d+1 words [a_0, ..., a_{d-1}, b]
// with the mask first and the body last. Buffers are either owned by the
// package ([Ciphertext]), borrowed from the caller ([CiphertextView],
// [CiphertextMutView]) or passed as raw pointers with an explicit dimension.
//
// Every operation exists in two layers. Methods of [Engine] validate their
// inputs and return errors; methods of [UncheckedEngine] skip validation
// and never return errors.
package lwe
