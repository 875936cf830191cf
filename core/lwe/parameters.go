package lwe

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lwecore/ring"
	"github.com/tuneinsight/lwecore/utils/bignum"
)

// ParametersLiteral is a literal representation of LWE parameters. It has public fields and
// is used to express unchecked user-defined parameters literally into Go programs.
// The [NewParametersFromLiteral] function is used to generate the actual checked parameters
// from the literal representation.
//
//   - Dimension: the number of mask words of a ciphertext (and of secret key coefficients).
//   - NoiseVariance: the variance of the encryption noise on the normalized torus.
//   - LogScale: the plaintext encoding shift, messages are encoded as m * 2^LogScale.
type ParametersLiteral struct {
	Dimension     int
	NoiseVariance float64
	LogScale      int
}

// ExampleParameters encrypts messages in the top bits of a dimension 10 ciphertext.
// They are NOT secure and are only meant for examples and tests.
var ExampleParameters = ParametersLiteral{
	Dimension:     10,
	NoiseVariance: DefaultNoiseVariance,
	LogScale:      60,
}

// Parameters represents a set of LWE parameters. Its fields are private and
// immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	dimension     int
	noiseVariance float64
	logScale      int
}

// NewParametersFromLiteral instantiates a set of LWE parameters from a [ParametersLiteral] specification.
// It returns an error wrapping ErrInvalidParameter if the literal is out of range.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.Dimension <= 0 {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: Dimension must be positive but is %d: %w", pl.Dimension, ErrInvalidParameter)
	}

	if !validVariance(pl.NoiseVariance) {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: NoiseVariance must be finite and positive but is %v: %w", pl.NoiseVariance, ErrInvalidParameter)
	}

	if pl.LogScale <= 0 || pl.LogScale >= 64 {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: LogScale must be in [1, 63] but is %d: %w", pl.LogScale, ErrInvalidParameter)
	}

	return Parameters{
		dimension:     pl.Dimension,
		noiseVariance: pl.NoiseVariance,
		logScale:      pl.LogScale,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Dimension:     p.dimension,
		NoiseVariance: p.noiseVariance,
		LogScale:      p.logScale,
	}
}

// Dimension returns the number of mask words of a ciphertext.
func (p Parameters) Dimension() int {
	return p.dimension
}

// NoiseVariance returns the variance of the encryption noise on the normalized torus.
func (p Parameters) NoiseVariance() float64 {
	return p.noiseVariance
}

// LogScale returns the plaintext encoding shift.
func (p Parameters) LogScale() int {
	return p.logScale
}

// Xe returns the encryption noise distribution.
func (p Parameters) Xe() ring.DiscreteGaussian {
	return NoiseDistribution(p.noiseVariance)
}

// NoiseLog2 returns log2 of the standard deviation of fresh encryption noise, in words.
func (p Parameters) NoiseLog2() float64 {
	sigma := bignum.NewFloat(math.Sqrt(p.noiseVariance), 128)
	sigma.Mul(sigma, bignum.Exp2(64, 128))
	log2, _ := bignum.Log2(sigma).Float64()
	return log2
}

// MaxCleartext returns the largest cleartext s such that s * tail * sigma * 2^64 < 2^(LogScale-1),
// that is, the largest multiplier that keeps the noise of a fresh ciphertext within tail standard
// deviations below half of the encoding scale. It returns 0 if tail is not positive
// or if the receiver is the zero value.
func (p Parameters) MaxCleartext(tail float64) uint64 {

	if !(tail > 0) {
		return 0
	}

	prec := uint(128)

	den := bignum.NewFloat(tail*math.Sqrt(p.noiseVariance), prec)
	den.Mul(den, bignum.Exp2(64, prec))

	q := new(big.Float).SetPrec(prec)
	q.Quo(bignum.Exp2(float64(p.logScale-1), prec), den)

	// Zero noise, only reachable with an uninitialized Parameters.
	if q.IsInf() {
		return 0
	}

	s := bignum.Floor(q)
	if q.IsInt() {
		s.Sub(s, big.NewInt(1))
	}

	switch {
	case s.Sign() <= 0:
		return 0
	case !s.IsUint64():
		return math.MaxUint64
	default:
		return s.Uint64()
	}
}

// Equal returns true if the receiver and the target parameters are equal.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
