// Package sampling implements secure sampling of bytes and integers
// and the entropy sources used to seed them.
package sampling

import (
	"github.com/zeebo/blake3"
)

// DeriveKey derives a [SeedSize]-byte key from material, bound to context.
// Distinct contexts yield independent keys for the same material.
func DeriveKey(context string, material []byte) (key []byte) {
	key = make([]byte, SeedSize)
	blake3.DeriveKey(context, material, key)
	return
}
