// Package waveform builds the coarse per-recording loudness summary shown
// when a finished recording is redisplayed, and replays stored summaries
// through the same interpolator contract the live pipeline uses.
package waveform

import (
	"time"

	"github.com/soniq/levelviz/internal/level"
)

// DefaultBuckets is the summary resolution persisted per recording.
const DefaultBuckets = 100

// Accumulator collects one normalized loudness value per captured block
// while a recording is in progress. Not safe for concurrent use; the
// recorder feeds it from a single goroutine.
type Accumulator struct {
	levels []float64
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{levels: make([]float64, 0, 4096)}
}

// Add appends one block's loudness, clamped to [0, 1].
func (a *Accumulator) Add(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	a.levels = append(a.levels, v)
}

// Len returns the number of accumulated blocks.
func (a *Accumulator) Len() int {
	return len(a.levels)
}

// Finalize downsamples the accumulated levels into n buckets by averaging,
// producing the fixed-size array the recording keeps for instant redisplay.
// Fewer accumulated blocks than buckets yields the levels as-is.
func (a *Accumulator) Finalize(n int) Summary {
	if n <= 0 {
		n = DefaultBuckets
	}
	if len(a.levels) == 0 {
		return Summary{}
	}
	if len(a.levels) <= n {
		out := make(Summary, len(a.levels))
		copy(out, a.levels)
		return out
	}

	out := make(Summary, n)
	perBucket := float64(len(a.levels)) / float64(n)
	for b := 0; b < n; b++ {
		lo := int(float64(b) * perBucket)
		hi := int(float64(b+1) * perBucket)
		if hi > len(a.levels) {
			hi = len(a.levels)
		}
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, v := range a.levels[lo:hi] {
			sum += v
		}
		out[b] = sum / float64(hi-lo)
	}
	return out
}

// Summary is the persisted loudness array for one completed recording,
// values in [0, 1] at a uniform time step.
type Summary []float64

// Player animates a stored Summary through a level.Interpolator, so a
// historical waveform moves exactly like live input. The player maps
// playback time onto summary entries and feeds each entry once, in order.
type Player struct {
	summary Summary
	interp  *level.Interpolator
	start   time.Time
	step    time.Duration
	fed     int
}

// NewPlayer creates a Player that begins playback at start with one summary
// entry per step.
func NewPlayer(s Summary, tuning level.Tuning, start time.Time, step time.Duration) *Player {
	if step <= 0 {
		step = 23 * time.Millisecond
	}
	return &Player{
		summary: s,
		interp:  level.NewInterpolator(tuning),
		start:   start,
		step:    step,
	}
}

// Query feeds every summary entry whose playback timestamp has been reached
// and evaluates the interpolator at now. Query cadence is free: a renderer
// may call it far more often than entries elapse.
func (p *Player) Query(now time.Time) level.Frame {
	for p.fed < len(p.summary) {
		ts := p.start.Add(time.Duration(p.fed) * p.step)
		if ts.After(now) {
			break
		}
		v := p.summary[p.fed]
		p.interp.Update(level.Sample{RMS: v, Peak: v, Timestamp: ts})
		p.fed++
	}
	return p.interp.Evaluate(now)
}

// Done reports whether every summary entry has been fed.
func (p *Player) Done() bool {
	return p.fed >= len(p.summary)
}
