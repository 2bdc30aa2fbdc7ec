package level

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestInterpolator_ZeroBeforeFirstUpdate(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	if f := ip.Evaluate(t0); f != (Frame{}) {
		t.Errorf("Evaluate before Update = %+v, want zero Frame", f)
	}
}

func TestInterpolator_RangeInvariant(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	now := t0
	for i := 0; i < 200; i++ {
		// Alternate loud and quiet input at an irregular cadence.
		rms := 0.0
		if i%3 == 0 {
			rms = 1.0
		}
		ip.Update(Sample{RMS: rms, Peak: rms, Timestamp: now})
		now = now.Add(time.Duration(1+i%37) * time.Millisecond)
		f := ip.Evaluate(now)
		if f.Value < 0 || f.Value > 1 {
			t.Fatalf("step %d: Value = %v out of [0,1]", i, f.Value)
		}
		if f.Peak < 0 || f.Peak > 1 {
			t.Fatalf("step %d: Peak = %v out of [0,1]", i, f.Peak)
		}
	}
}

func TestInterpolator_EvaluateIdempotentAtSameInstant(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 0.8, Peak: 0.9, Timestamp: t0})

	now := t0.Add(40 * time.Millisecond)
	first := ip.Evaluate(now)
	second := ip.Evaluate(now)
	if first != second {
		t.Errorf("Evaluate(now) twice: %+v then %+v, want identical", first, second)
	}
}

func TestInterpolator_BackwardsClockIsNoOp(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 0.8, Peak: 0.9, Timestamp: t0})

	now := t0.Add(40 * time.Millisecond)
	want := ip.Evaluate(now)
	got := ip.Evaluate(now.Add(-25 * time.Millisecond))
	if got != want {
		t.Errorf("Evaluate(earlier) = %+v, want cached %+v", got, want)
	}
}

func TestInterpolator_MonotonicPeakDecay(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 0.5, Peak: 0.95, Timestamp: t0})

	prev := ip.Evaluate(t0.Add(time.Millisecond)).Peak
	for i := 2; i <= 120; i++ {
		cur := ip.Evaluate(t0.Add(time.Duration(i) * 7 * time.Millisecond)).Peak
		if cur > prev {
			t.Fatalf("peak rose from %v to %v without a new update", prev, cur)
		}
		prev = cur
	}
}

func TestInterpolator_PartialPeakDecayAfter50ms(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 0.4, Peak: 0.9, Timestamp: t0})

	f := ip.Evaluate(t0.Add(50 * time.Millisecond))
	if f.Peak >= 0.9 {
		t.Errorf("Peak = %v after 50ms, want < 0.9", f.Peak)
	}
	if f.Peak <= 0 {
		t.Errorf("Peak = %v after 50ms, want > 0 (decay, not reset)", f.Peak)
	}
}

// A renderer polling slower than the producer updates must not charge a
// fresh spike for the whole inter-query gap: the peak decays from the moment
// it was raised, not from the previous query.
func TestInterpolator_SlowQueryKeepsFreshPeak(t *testing.T) {
	t.Parallel()

	tn := DefaultTuning()
	ip := NewInterpolator(tn)
	ip.Update(Sample{RMS: 0.1, Peak: 0.1, Timestamp: t0})
	ip.Evaluate(t0.Add(10 * time.Millisecond))

	// Half a second later a spike lands, queried 10ms after that.
	spikeAt := t0.Add(500 * time.Millisecond)
	ip.Update(Sample{RMS: 0.9, Peak: 0.9, Timestamp: spikeAt})
	now := t0.Add(510 * time.Millisecond)
	f := ip.Evaluate(now)

	age := now.Sub(spikeAt).Seconds() / tn.FrameInterval.Seconds()
	floor := 0.9 * math.Pow(tn.PeakDecay, age)
	if f.Peak < floor-1e-9 {
		t.Errorf("Peak = %v for a 10ms-old 0.9 spike, want >= %v (decay by its own age)", f.Peak, floor)
	}
	if f.Peak > 0.9 {
		t.Errorf("Peak = %v, want <= the raw spike 0.9", f.Peak)
	}
}

func TestInterpolator_AttackFasterThanRelease(t *testing.T) {
	t.Parallel()

	const step = 16 * time.Millisecond

	timeTo := func(start, target float64, reached func(float64) bool) time.Duration {
		ip := NewInterpolator(DefaultTuning())
		ip.Update(Sample{RMS: start, Peak: start, Timestamp: t0})
		// Settle at the starting level.
		for i := 1; i <= 600; i++ {
			ip.Evaluate(t0.Add(time.Duration(i) * step))
		}
		base := t0.Add(600 * step)
		ip.Update(Sample{RMS: target, Peak: target, Timestamp: base})
		for i := 1; i <= 2000; i++ {
			now := base.Add(time.Duration(i) * step)
			if reached(ip.Evaluate(now).Value) {
				return now.Sub(base)
			}
		}
		t.Fatalf("never reached target from %v to %v", start, target)
		return 0
	}

	attack := timeTo(0, 1, func(v float64) bool { return v >= 0.9 })
	release := timeTo(1, 0, func(v float64) bool { return v <= 0.1 })

	if attack >= release {
		t.Errorf("attack to 90%% took %v, release to 10%% took %v; want attack < release", attack, release)
	}
}

// Ten seconds of silence updates one second apart, then dense queries: the
// value must converge toward zero monotonically with no oscillation.
func TestInterpolator_SilenceConvergence(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 1, Peak: 1, Timestamp: t0})
	ip.Evaluate(t0.Add(10 * time.Millisecond))

	now := t0
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		ip.Update(Sample{RMS: 0, Peak: 0, Timestamp: now})
	}

	prev := ip.Evaluate(now.Add(time.Millisecond)).Value
	for i := 1; i <= 200; i++ {
		cur := ip.Evaluate(now.Add(time.Duration(i) * 5 * time.Millisecond)).Value
		if cur > prev {
			t.Fatalf("value oscillated: %v then %v", prev, cur)
		}
		prev = cur
	}
	if prev > 0.01 {
		t.Errorf("value = %v after 1s of queries, want near 0", prev)
	}
}

// A multi-minute gap (app suspended) must converge in one bounded step, not
// jump past the target or misbehave.
func TestInterpolator_HugeGapIsDeterministic(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 1, Peak: 1, Timestamp: t0})
	ip.Evaluate(t0.Add(10 * time.Millisecond))
	ip.Update(Sample{RMS: 0.25, Peak: 0.25, Timestamp: t0.Add(20 * time.Millisecond)})

	f := ip.Evaluate(t0.Add(5 * time.Minute))
	if f.Value < 0.25-1e-9 || f.Value > 1 {
		t.Errorf("Value = %v after 5min gap, want in [0.25, 1] (converged, no undershoot)", f.Value)
	}
	if f.Peak > 1e-6 {
		t.Errorf("Peak = %v after 5min gap, want ~0", f.Peak)
	}

	// Same inputs, same result.
	ip2 := NewInterpolator(DefaultTuning())
	ip2.Update(Sample{RMS: 1, Peak: 1, Timestamp: t0})
	ip2.Evaluate(t0.Add(10 * time.Millisecond))
	ip2.Update(Sample{RMS: 0.25, Peak: 0.25, Timestamp: t0.Add(20 * time.Millisecond)})
	if f2 := ip2.Evaluate(t0.Add(5 * time.Minute)); f2 != f {
		t.Errorf("same inputs produced %+v and %+v", f, f2)
	}
}

func TestInterpolator_ResetReturnsToSilentState(t *testing.T) {
	t.Parallel()

	ip := NewInterpolator(DefaultTuning())
	ip.Update(Sample{RMS: 0.7, Peak: 0.8, Timestamp: t0})
	ip.Evaluate(t0.Add(30 * time.Millisecond))

	ip.Reset()
	if f := ip.Evaluate(t0.Add(time.Hour)); f != (Frame{}) {
		t.Errorf("Evaluate after Reset = %+v, want zero Frame", f)
	}
}
