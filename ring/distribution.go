package ring

import (
	"encoding/json"
)

const (
	discreteGaussianName = "DiscreteGaussian"
	binaryDistName       = "Binary"
	uniformDistName      = "Uniform"
)

// DistributionParameters is an interface for distribution
// parameters over Z_{2^64}.
// There are three implementation of this interface:
//   - DiscreteGaussian for sampling words with discretized
//     gaussian noise of given standard deviation and bound.
//   - Binary for sampling words in {0, 1}.
//   - Uniform for sampling uniformly random words.
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a discrete Gaussian
// distribution on the torus: Sigma and Bound are fractions of 2^64.
// Samples are rejected outside of [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Binary represents the uniform distribution over {0, 1}.
type Binary struct{}

// Uniform represents the uniform distribution over Z_{2^64}.
type Uniform struct{}

func (d DiscreteGaussian) Type() string {
	return discreteGaussianName
}

func (d DiscreteGaussian) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string
		Sigma, Bound float64 `json:",omitempty"`
	}{d.Type(), d.Sigma, d.Bound})
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Binary) Type() string {
	return binaryDistName
}

func (d Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
	}{Type: d.Type()})
}

func (d Binary) mustBeDist() {}

func (d Uniform) Type() string {
	return uniformDistName
}

func (d Uniform) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
	}{Type: d.Type()})
}

func (d Uniform) mustBeDist() {}
