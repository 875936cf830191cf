// Package store provides content-addressed storage of serialized ciphertexts.
package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/tuneinsight/lwecore/core/lwe"
)

// Common errors.
var (
	ErrNotFound      = errors.New("ciphertext not found")
	ErrStorageFull   = errors.New("storage capacity exceeded")
	ErrInvalidHandle = errors.New("invalid ciphertext handle")
)

// Handle uniquely identifies a stored ciphertext: the hex encoded
// blake3-256 digest of its serialization.
type Handle string

// ComputeHandle generates a handle from ciphertext data.
func ComputeHandle(data []byte) Handle {
	hash := blake3.Sum256(data)
	return Handle(hex.EncodeToString(hash[:]))
}

// Validate returns ErrInvalidHandle if h is not a hex encoded 32-byte digest.
func (h Handle) Validate() error {
	if len(h) != 64 {
		return fmt.Errorf("%w: length %d", ErrInvalidHandle, len(h))
	}
	if _, err := hex.DecodeString(string(h)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	return nil
}

// Storage defines the interface for ciphertext storage.
// Storing the same data twice returns the same handle.
type Storage interface {
	// Store saves a ciphertext and returns its handle.
	Store(ctx context.Context, data []byte) (Handle, error)
	// Load retrieves a ciphertext by handle.
	Load(ctx context.Context, handle Handle) ([]byte, error)
	// Delete removes a ciphertext.
	Delete(ctx context.Context, handle Handle) error
	// Exists checks if a ciphertext exists.
	Exists(ctx context.Context, handle Handle) (bool, error)
	// Close closes the storage.
	Close() error
}

// SaveCiphertext serializes ct and stores it in s.
func SaveCiphertext(ctx context.Context, s Storage, ct lwe.CiphertextReader) (Handle, error) {
	data, err := ct.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("marshal ciphertext: %w", err)
	}
	return s.Store(ctx, data)
}

// LoadCiphertext loads the ciphertext identified by handle from s as a new
// ciphertext of eng.
func LoadCiphertext(ctx context.Context, s Storage, eng *lwe.Engine, handle Handle) (*lwe.Ciphertext, error) {
	data, err := s.Load(ctx, handle)
	if err != nil {
		return nil, err
	}

	if ComputeHandle(data) != handle {
		return nil, fmt.Errorf("load ciphertext %s: content does not match handle: %w", handle, ErrInvalidHandle)
	}

	ct, err := eng.UnmarshalCiphertext(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal ciphertext: %w", err)
	}

	return ct, nil
}
