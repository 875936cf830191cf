package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/zeebo/blake3"
)

// SeedSize is the number of bytes read from a [Seeder] to key a [KeyedPRNG].
const SeedSize = 32

// ErrNoEntropySource is returned when no usable entropy source exists
// or when a source fails to deliver the requested bytes.
var ErrNoEntropySource = errors.New("no entropy source available")

// Seeder is a source of entropy used to seed pseudo-random generators.
type Seeder interface {
	io.Reader
	// Name describes the entropy source.
	Name() string
}

// HardwareRNG returns true if the CPU exposes RDRAND or RDSEED.
func HardwareRNG() bool {
	return cpuid.CPU.Supports(cpuid.RDRAND) || cpuid.CPU.Supports(cpuid.RDSEED)
}

// SystemSeeder reads from the operating system CSPRNG.
type SystemSeeder struct{}

// Read fills p with entropy from the operating system.
func (SystemSeeder) Read(p []byte) (n int, err error) {
	if n, err = rand.Read(p); err != nil {
		return n, fmt.Errorf("system seeder: %w: %w", ErrNoEntropySource, err)
	}
	return
}

// Name returns "system", suffixed with "+hwrng" on CPUs with a hardware RNG.
func (SystemSeeder) Name() string {
	if HardwareRNG() {
		return "system+hwrng"
	}
	return "system"
}

// DevRandomPath is the device read by [DevRandomSeeder].
const DevRandomPath = "/dev/random"

// DevRandomSeeder reads from /dev/random and conditions the output with a
// blake3 hash keyed by a caller-provided secret. The output is as
// unpredictable as the device; the key adds strength only when the caller
// keeps it secret.
type DevRandomSeeder struct {
	mu   sync.Mutex
	file *os.File
	key  [32]byte
}

// NewDevRandomSeeder opens /dev/random. The secret may be of any length.
func NewDevRandomSeeder(secret []byte) (*DevRandomSeeder, error) {
	f, err := os.Open(DevRandomPath)
	if err != nil {
		return nil, fmt.Errorf("cannot NewDevRandomSeeder: %w: %w", ErrNoEntropySource, err)
	}
	return &DevRandomSeeder{file: f, key: blake3.Sum256(secret)}, nil
}

// Read fills p with whitened entropy.
func (s *DevRandomSeeder) Read(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return 0, fmt.Errorf("dev random seeder: %w: closed", ErrNoEntropySource)
	}

	raw := make([]byte, len(p))
	if _, err = io.ReadFull(s.file, raw); err != nil {
		return 0, fmt.Errorf("dev random seeder: %w: %w", ErrNoEntropySource, err)
	}

	h, err := blake3.NewKeyed(s.key[:])
	if err != nil {
		return 0, fmt.Errorf("dev random seeder: %w", err)
	}

	if _, err = h.Write(raw); err != nil {
		return 0, fmt.Errorf("dev random seeder: %w", err)
	}

	return io.ReadFull(h.Digest(), p)
}

// Name returns "dev-random".
func (s *DevRandomSeeder) Name() string {
	return "dev-random"
}

// Close releases the device.
func (s *DevRandomSeeder) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// DeterministicSeeder replays the stream of a [KeyedPRNG].
// It is only as secret as its key.
type DeterministicSeeder struct {
	*KeyedPRNG
}

// NewDeterministicSeeder returns a [DeterministicSeeder] keyed by key (at most 64 bytes).
func NewDeterministicSeeder(key []byte) (*DeterministicSeeder, error) {
	prng, err := NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("cannot NewDeterministicSeeder: %w", err)
	}
	return &DeterministicSeeder{KeyedPRNG: prng}, nil
}

// Name returns "deterministic".
func (s *DeterministicSeeder) Name() string {
	return "deterministic"
}

// Probe reads a full seed from s and reports whether it succeeded.
func Probe(s Seeder) (err error) {
	if s == nil {
		return fmt.Errorf("seeder is nil: %w", ErrNoEntropySource)
	}
	var seed [SeedSize]byte
	if _, err = io.ReadFull(s, seed[:]); err != nil {
		if errors.Is(err, ErrNoEntropySource) {
			return err
		}
		return fmt.Errorf("seeder %s: %w: %w", s.Name(), ErrNoEntropySource, err)
	}
	return nil
}

// BestAvailableSeeder returns the most secure entropy source the host offers:
// the operating system CSPRNG, then /dev/random conditioned under a
// process-local key. It returns an error wrapping [ErrNoEntropySource] if
// none of them delivers a seed.
func BestAvailableSeeder() (Seeder, error) {

	var system SystemSeeder
	errSystem := Probe(system)
	if errSystem == nil {
		return system, nil
	}

	// Process-local key: the seed relies on the device alone.
	var secret [SeedSize]byte
	binary.LittleEndian.PutUint64(secret[:], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(secret[8:], uint64(os.Getpid()))

	dev, errDev := NewDevRandomSeeder(secret[:])
	if errDev == nil {
		if errDev = Probe(dev); errDev == nil {
			return dev, nil
		}
		dev.Close()
	}

	return nil, fmt.Errorf("cannot BestAvailableSeeder: %w", errors.Join(errSystem, errDev))
}

// BestAvailableSeederUnchecked behaves as [BestAvailableSeeder] but never fails:
// without an operating system source it falls back to a [DeterministicSeeder]
// keyed with the current time and process id.
// WARNING: the fallback is predictable and NOT cryptographically secure.
func BestAvailableSeederUnchecked() Seeder {

	if s, err := BestAvailableSeeder(); err == nil {
		return s
	}

	var material [16]byte
	binary.LittleEndian.PutUint64(material[:], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(material[8:], uint64(os.Getpid()))

	s, err := NewDeterministicSeeder(DeriveKey("lwecore unchecked seeder", material[:]))
	if err != nil {
		// Sanity check, a 32-byte key is always valid.
		panic(err)
	}
	return s
}
