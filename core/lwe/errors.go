package lwe

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/lwecore/utils/sampling"
)

var (
	// ErrEntropySourceUnavailable is returned when the seeder of an engine fails.
	// It matches sampling.ErrNoEntropySource under errors.Is.
	ErrEntropySourceUnavailable = fmt.Errorf("entropy source unavailable: %w", sampling.ErrNoEntropySource)

	// ErrInvalidParameter is returned for out of range dimensions, variances or parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSizeMismatch is returned when buffer lengths are inconsistent with each other or with a key.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrNullOrMisalignedPointer is returned for nil handles and for pointers not aligned on 8 bytes.
	ErrNullOrMisalignedPointer = errors.New("null or misaligned pointer")

	// ErrUseAfterFree is returned when a destroyed object, or an object of a destroyed engine, is used.
	ErrUseAfterFree = errors.New("use after free")
)

// Status is the integer code of an error.
type Status uint8

const (
	StatusSuccess                  = Status(0)
	StatusEntropySourceUnavailable = Status(1)
	StatusInvalidParameter         = Status(2)
	StatusSizeMismatch             = Status(3)
	StatusNullOrMisalignedPointer  = Status(4)
	StatusUseAfterFree             = Status(5)
	StatusUnknown                  = Status(255)
)

// StatusOf maps err to its [Status]. A nil error is StatusSuccess.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, sampling.ErrNoEntropySource):
		return StatusEntropySourceUnavailable
	case errors.Is(err, ErrInvalidParameter):
		return StatusInvalidParameter
	case errors.Is(err, ErrSizeMismatch):
		return StatusSizeMismatch
	case errors.Is(err, ErrNullOrMisalignedPointer):
		return StatusNullOrMisalignedPointer
	case errors.Is(err, ErrUseAfterFree):
		return StatusUseAfterFree
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusEntropySourceUnavailable:
		return "EntropySourceUnavailable"
	case StatusInvalidParameter:
		return "InvalidParameter"
	case StatusSizeMismatch:
		return "SizeMismatch"
	case StatusNullOrMisalignedPointer:
		return "NullOrMisalignedPointer"
	case StatusUseAfterFree:
		return "UseAfterFree"
	default:
		return "Unknown"
	}
}
