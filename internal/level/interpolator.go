package level

import (
	"math"
	"time"
)

// Tuning holds the smoothing constants for one renderer style. The defaults
// are tuned by ear; treat them as starting points, not invariants.
type Tuning struct {
	// Attack is the smoothing coefficient per nominal update tick while the
	// signal is rising. Attack should be much larger than Release so the
	// meter jumps on transients but settles smoothly.
	Attack float64
	// Release is the smoothing coefficient per nominal update tick while the
	// signal is falling.
	Release float64
	// PeakDecay is the multiplicative peak-hold decay per nominal frame.
	PeakDecay float64
	// UpdateInterval is the nominal producer tick the Attack/Release
	// coefficients are expressed against (~43 Hz for 1024-frame blocks at
	// 44.1 kHz).
	UpdateInterval time.Duration
	// FrameInterval is the nominal renderer frame PeakDecay is expressed
	// against.
	FrameInterval time.Duration
}

// DefaultTuning returns the stock meter feel: near-instant attack, slow
// release, peak flashes that fade over a few hundred milliseconds.
func DefaultTuning() Tuning {
	return Tuning{
		Attack:         0.6,
		Release:        0.12,
		PeakDecay:      0.88,
		UpdateInterval: 23 * time.Millisecond,
		FrameInterval:  time.Second / 60,
	}
}

func (t Tuning) sanitized() Tuning {
	d := DefaultTuning()
	if t.Attack <= 0 || t.Attack > 1 {
		t.Attack = d.Attack
	}
	if t.Release <= 0 || t.Release > 1 {
		t.Release = d.Release
	}
	if t.PeakDecay <= 0 || t.PeakDecay >= 1 {
		t.PeakDecay = d.PeakDecay
	}
	if t.UpdateInterval <= 0 {
		t.UpdateInterval = d.UpdateInterval
	}
	if t.FrameInterval <= 0 {
		t.FrameInterval = d.FrameInterval
	}
	return t
}

// Interpolator reconstructs a continuous display signal from Samples that
// arrive at the producer's rate, so a renderer can query it at any higher or
// irregular rate without visible seams. Smoothing is applied at evaluation
// time against wall-clock elapsed time, never per tick, which makes Evaluate
// correct for any call pattern and idempotent at a fixed instant.
//
// Each renderer owns exactly one Interpolator; instances are not safe for
// concurrent use and are never shared across visual styles.
type Interpolator struct {
	tuning Tuning

	lastInput float64
	smoothed  float64
	peakHold  float64

	started    bool
	lastUpdate time.Time
	lastQuery  time.Time
	peakAt     time.Time
	lastFrame  Frame
}

// NewInterpolator creates an Interpolator with the given tuning. Zero or
// out-of-range tuning fields fall back to DefaultTuning values.
func NewInterpolator(t Tuning) *Interpolator {
	return &Interpolator{tuning: t.sanitized()}
}

// Update records a newly arrived Sample as the smoothing target. The peak
// attack is instantaneous so a spike is never missed; the smoothed value
// itself only moves at evaluation time.
func (ip *Interpolator) Update(s Sample) {
	ip.lastInput = clamp01(s.RMS)
	if p := clamp01(s.Peak); p > ip.peakHold {
		ip.peakHold = p
		ip.peakAt = s.Timestamp
	}
	ip.lastUpdate = s.Timestamp
	ip.started = true
}

// Evaluate advances the smoothed value and peak hold to now and returns the
// resulting Frame. Calling it again at the same instant returns the same
// Frame; calling it with now earlier than the previous query is a no-op
// returning the last computed Frame. Before the first Update it returns the
// zero Frame.
func (ip *Interpolator) Evaluate(now time.Time) Frame {
	if !ip.started {
		return Frame{}
	}

	ref := ip.lastQuery
	if ref.IsZero() {
		ref = ip.lastUpdate
	}
	if now.Before(ref) {
		return ip.lastFrame
	}
	elapsed := now.Sub(ref).Seconds()

	coeff := ip.tuning.Release
	if ip.lastInput > ip.smoothed {
		coeff = ip.tuning.Attack
	}

	// Scale the per-tick coefficient by elapsed time and saturate at 1, so
	// an arbitrarily long gap converges exactly to the target instead of
	// overshooting. The smoothstep shape keeps the derivative zero at both
	// ends of the interpolation, which is what hides sample-arrival seams.
	alpha := coeff * elapsed / ip.tuning.UpdateInterval.Seconds()
	if alpha > 1 {
		alpha = 1
	}
	ip.smoothed = clamp01(ip.smoothed + (ip.lastInput-ip.smoothed)*smoothstep(alpha))

	// Closed-form exponential peak decay from the moment the peak was last
	// raised, not from the last query, so a spike that landed mid-gap is only
	// charged for its own age. Irregular query cadence decays by the same
	// trajectory as a steady one.
	peakRef := ip.peakAt
	if peakRef.Before(ref) {
		peakRef = ref
	}
	if now.After(peakRef) {
		frames := now.Sub(peakRef).Seconds() / ip.tuning.FrameInterval.Seconds()
		ip.peakHold = clamp01(ip.peakHold * math.Pow(ip.tuning.PeakDecay, frames))
	}
	ip.peakAt = now

	ip.lastQuery = now
	ip.lastFrame = Frame{Value: ip.smoothed, Peak: ip.peakHold}
	return ip.lastFrame
}

// Reset returns the interpolator to its initial silent state, for reuse when
// a visualization is hidden and shown again.
func (ip *Interpolator) Reset() {
	ip.lastInput = 0
	ip.smoothed = 0
	ip.peakHold = 0
	ip.started = false
	ip.lastUpdate = time.Time{}
	ip.lastQuery = time.Time{}
	ip.peakAt = time.Time{}
	ip.lastFrame = Frame{}
}

// smoothstep is the cubic 3t²-2t³ on [0, 1], clamped outside it.
func smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
