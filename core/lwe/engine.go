package lwe

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tuneinsight/lwecore/ring"
	"github.com/tuneinsight/lwecore/utils/logging"
	"github.com/tuneinsight/lwecore/utils/sampling"
)

const forkContext = "lwecore engine fork v1"

// Engine is the factory of secret keys and ciphertexts and the owner of the
// pseudo-random stream used for key generation and encryption.
//
// An Engine is not safe for concurrent use: use [Engine.Fork] to obtain one
// engine per goroutine, or serialize calls with a lock.
type Engine struct {
	checked bool
	seeder  string

	prng    *sampling.KeyedPRNG
	uniform *ring.UniformSampler
	binary  *ring.BinarySampler

	logger    logging.Logger
	live      int
	destroyed bool
}

// NewEngine creates a new Engine keyed with sampling.SeedSize bytes read from seeder.
// It returns an error wrapping ErrEntropySourceUnavailable if the seeder is nil
// or fails to deliver the seed.
func NewEngine(seeder sampling.Seeder) (*Engine, error) {

	seed, err := readSeed(seeder)
	if err != nil {
		return nil, fmt.Errorf("cannot NewEngine: %w: %w", ErrEntropySourceUnavailable, err)
	}

	return newEngine(seed, true, seeder.Name(), logging.New(nil)), nil
}

// NewEngineUnchecked creates a new Engine without validating the seeder.
// It panics if the seeder fails.
func NewEngineUnchecked(seeder sampling.Seeder) *Engine {

	seed, err := readSeed(seeder)
	if err != nil {
		// Sanity check, the caller vouched for the seeder.
		panic(fmt.Errorf("cannot NewEngineUnchecked: %w: %w", ErrEntropySourceUnavailable, err))
	}

	return newEngine(seed, false, seeder.Name(), logging.New(nil))
}

func readSeed(seeder sampling.Seeder) (seed []byte, err error) {

	if seeder == nil {
		return nil, fmt.Errorf("seeder is nil")
	}

	seed = make([]byte, sampling.SeedSize)
	if _, err = io.ReadFull(seeder, seed); err != nil {
		return nil, err
	}

	return
}

func newEngine(seed []byte, checked bool, seeder string, logger logging.Logger) *Engine {

	prng, err := sampling.NewKeyedPRNG(seed)

	// Sanity check, this error should not happen with a SeedSize key.
	if err != nil {
		panic(err)
	}

	e := &Engine{
		checked: checked,
		seeder:  seeder,
		prng:    prng,
		uniform: ring.NewUniformSampler(prng),
		binary:  ring.NewBinarySampler(prng),
		logger:  logger,
	}

	e.logger.Debug(context.Background(), "engine created",
		slog.Bool("checked", checked),
		slog.String("seeder", seeder),
		slog.Bool("hardware_rng", sampling.HardwareRNG()))

	return e
}

// Fork returns a new Engine, in the same mode, whose stream is derived from
// the stream of the receiver. The receiver and the fork can then be used
// from different goroutines.
func (e *Engine) Fork() (*Engine, error) {

	if e.destroyed {
		return nil, fmt.Errorf("cannot Fork: engine: %w", ErrUseAfterFree)
	}

	material := make([]byte, sampling.SeedSize)
	if _, err := e.prng.Read(material); err != nil {
		return nil, fmt.Errorf("cannot Fork: %w: %w", ErrEntropySourceUnavailable, err)
	}

	e.logger.Debug(context.Background(), "engine forked")

	return newEngine(sampling.DeriveKey(forkContext, material), e.checked, e.seeder+"/fork", e.logger), nil
}

// SetLogger sets the logger of the engine. A nil logger binds to slog.Default().
func (e *Engine) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.New(nil)
	}
	e.logger = logger
}

// Checked returns true if the engine was created with [NewEngine].
func (e *Engine) Checked() bool {
	return e.checked
}

// LiveObjects returns the number of keys, ciphertexts and views created by
// the engine and not yet destroyed.
func (e *Engine) LiveObjects() int {
	return e.live
}

// Destroy releases the engine. Objects created by the engine become unusable
// in the checked layer. Destroying an engine twice returns ErrUseAfterFree.
func (e *Engine) Destroy() error {

	if e.destroyed {
		return fmt.Errorf("cannot Destroy: engine: %w", ErrUseAfterFree)
	}

	if e.live != 0 {
		e.logger.Warn(context.Background(), "engine destroyed with live objects", slog.Int("live_objects", e.live))
	} else {
		e.logger.Debug(context.Background(), "engine destroyed")
	}

	e.destroyed = true
	e.prng = nil
	e.uniform = nil
	e.binary = nil

	return nil
}

// Unchecked returns the unchecked layer of the engine.
func (e *Engine) Unchecked() UncheckedEngine {
	return UncheckedEngine{e}
}

// object is the lifecycle state shared by keys, ciphertexts and views.
type object struct {
	engine    *Engine
	destroyed bool
}

func (e *Engine) track() object {
	e.live++
	return object{engine: e}
}

func (o *object) release() {
	o.destroyed = true
	if o.engine != nil {
		o.engine.live--
	}
}

func (o *object) alive() bool {
	return !o.destroyed && (o.engine == nil || !o.engine.destroyed)
}

// checkAlive returns an error wrapping ErrUseAfterFree if the engine or one of
// the objects is no longer usable.
func (e *Engine) checkAlive(op string, objs ...*object) error {

	if e.destroyed {
		return fmt.Errorf("cannot %s: engine: %w", op, ErrUseAfterFree)
	}

	for _, o := range objs {
		if !o.alive() {
			return fmt.Errorf("cannot %s: object: %w", op, ErrUseAfterFree)
		}
	}

	return nil
}

func (e *Engine) noiseSampler(variance float64) *ring.GaussianSampler {

	s, err := ring.NewSampler(e.prng, NoiseDistribution(variance))

	// Sanity check, the checked layer validates the variance beforehand.
	if err != nil {
		panic(err)
	}

	return s.(*ring.GaussianSampler)
}
