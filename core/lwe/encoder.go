package lwe

// Encoder maps messages to and from the high bits of a plaintext word.
// The zero value encodes with scale 1.
type Encoder struct {
	logScale int
}

// NewEncoder creates a new Encoder with the scale of params.
func NewEncoder(params Parameters) *Encoder {
	return &Encoder{logScale: params.LogScale()}
}

// Delta returns the encoding scale 2^LogScale.
func (ecd Encoder) Delta() uint64 {
	return 1 << ecd.logScale
}

// Encode returns m * 2^LogScale mod 2^64.
func (ecd Encoder) Encode(m uint64) (pt uint64) {
	return m << ecd.logScale
}

// Decode rounds pt to the nearest multiple of 2^LogScale and returns the
// message, modulo 2^(64-LogScale).
func (ecd Encoder) Decode(pt uint64) (m uint64) {
	if ecd.logScale == 0 {
		return pt
	}
	return (pt + 1<<(ecd.logScale-1)) >> ecd.logScale
}

// DecodeFloat returns pt / 2^LogScale without rounding.
func (ecd Encoder) DecodeFloat(pt uint64) float64 {
	return float64(pt) / float64(ecd.Delta())
}
