package level

import (
	"math"
	"time"
)

const (
	// DefaultCurveExponent compresses loud content less aggressively than a
	// square-root curve would, keeping whisper and shout visually distinct.
	DefaultCurveExponent = 0.85
	// DefaultCurveFloor keeps a small non-zero baseline so the meter never
	// looks dead during pauses in speech.
	DefaultCurveFloor = 0.05
)

// Extractor computes per-block RMS and peak loudness and maps both onto a
// perceptual [0, 1] scale. It is block-size agnostic, allocation-free per
// call, and safe to invoke from a real-time capture callback. Not safe for
// concurrent use; the capture session owns one instance.
type Extractor struct {
	exponent float64
	floor    float64
}

// NewExtractor creates an Extractor with the given curve shape. Out-of-range
// parameters fall back to the defaults.
func NewExtractor(exponent, floor float64) *Extractor {
	if exponent <= 0 {
		exponent = DefaultCurveExponent
	}
	if floor < 0 || floor >= 1 {
		floor = DefaultCurveFloor
	}
	return &Extractor{exponent: exponent, floor: floor}
}

// Process measures one block of normalized amplitude samples in [-1, 1] and
// returns a Sample tagged with the block's capture time. A zero-length block
// yields a raw zero Sample: silence is a valid state, not an error.
func (e *Extractor) Process(block []float64, at time.Time) Sample {
	if len(block) == 0 {
		return Sample{Timestamp: at}
	}

	var sumSquares, peak float64
	for _, v := range block {
		sumSquares += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	rms := math.Sqrt(sumSquares / float64(len(block)))

	return Sample{
		RMS:       e.normalize(rms),
		Peak:      e.normalize(peak),
		Timestamp: at,
	}
}

// ProcessPCM16 is Process for raw S16LE mono bytes as delivered by the
// capture hardware, avoiding an intermediate float conversion pass.
func (e *Extractor) ProcessPCM16(buf []byte, at time.Time) Sample {
	n := len(buf) / 2
	if n == 0 {
		return Sample{Timestamp: at}
	}

	var sumSquares, peak float64
	for i := 0; i < n; i++ {
		// Little-endian int16, mono
		s := int16(buf[2*i]) | int16(buf[2*i+1])<<8
		v := float64(s) / 32768.0
		sumSquares += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	rms := math.Sqrt(sumSquares / float64(n))

	return Sample{
		RMS:       e.normalize(rms),
		Peak:      e.normalize(peak),
		Timestamp: at,
	}
}

func (e *Extractor) normalize(v float64) float64 {
	return clamp01(math.Pow(v, e.exponent) + e.floor)
}
