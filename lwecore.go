/*
Package lwecore is a pure Go implementation of encrypted arithmetic over LWE ciphertexts.
It provides key generation, encryption, decryption and discard-style homomorphic
operations on ciphertexts held in owned buffers, in zero-copy views over caller
memory or behind raw pointers, with a checked and an unchecked API.
*/
package lwecore
