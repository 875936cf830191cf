package lwe

import (
	"math"

	"github.com/tuneinsight/lwecore/ring"
)

const (
	// DefaultNoiseBoundFactor is the bound, in number of standard deviations, of the encryption noise.
	DefaultNoiseBoundFactor = 6.0

	// DefaultNoiseVariance is the variance, on the normalized torus, of the example parameters.
	DefaultNoiseVariance = 1e-9
)

// NoiseDistribution returns the truncated discrete Gaussian of the given variance on
// the normalized torus: Sigma = sqrt(variance), Bound = DefaultNoiseBoundFactor * Sigma.
func NoiseDistribution(variance float64) ring.DiscreteGaussian {
	sigma := math.Sqrt(variance)
	return ring.DiscreteGaussian{Sigma: sigma, Bound: DefaultNoiseBoundFactor * sigma}
}

func validVariance(variance float64) bool {
	return variance > 0 && !math.IsInf(variance, 0) && !math.IsNaN(variance)
}
