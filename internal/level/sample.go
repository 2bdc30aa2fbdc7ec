// Package level implements the audio-reactive visualization pipeline: block
// loudness extraction, a lock-free producer/consumer bridge, and a
// display-rate temporal interpolator with asymmetric attack/release smoothing.
package level

import "time"

// Sample is one loudness measurement for a single captured audio block.
// RMS and Peak are normalized to [0, 1]. A Sample is immutable once
// constructed; the zero Sample means silence with no capture timestamp.
type Sample struct {
	RMS       float64
	Peak      float64
	Timestamp time.Time
}

// Frame is the visual state a renderer consumes: the smoothed display value
// and the decaying peak-hold value, both in [0, 1].
type Frame struct {
	Value float64
	Peak  float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
