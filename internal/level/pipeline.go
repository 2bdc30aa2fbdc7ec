package level

import "time"

// Pipeline wires one capture session to its renderers: the hardware callback
// feeds OnAudioBlock, each renderer polls its own handle at display rate.
// A Pipeline is created at recording start and closed when the session ends.
type Pipeline struct {
	extractor *Extractor
	bridge    *Bridge
}

// NewPipeline creates a Pipeline with the given perceptual curve shape.
func NewPipeline(curveExponent, curveFloor float64) *Pipeline {
	return &Pipeline{
		extractor: NewExtractor(curveExponent, curveFloor),
		bridge:    NewBridge(),
	}
}

// OnAudioBlock measures one block of normalized amplitude samples and
// publishes the result. Called synchronously from the capture callback; it
// never blocks and never allocates beyond the published Sample.
func (p *Pipeline) OnAudioBlock(block []float64, now time.Time) Sample {
	s := p.extractor.Process(block, now)
	p.bridge.Publish(s)
	return s
}

// OnPCM16Block is OnAudioBlock for raw S16LE mono capture bytes.
func (p *Pipeline) OnPCM16Block(buf []byte, now time.Time) Sample {
	s := p.extractor.ProcessPCM16(buf, now)
	p.bridge.Publish(s)
	return s
}

// Close tears down the session's bridge. Renderers keep working; their
// queries decay smoothly to silence.
func (p *Pipeline) Close() {
	p.bridge.Close()
}

// AddRenderer registers an independent visual consumer with its own tuning.
// Renderers may be added and discarded at any point during the session.
func (p *Pipeline) AddRenderer(t Tuning) *Renderer {
	return &Renderer{
		bridge: p.bridge,
		interp: NewInterpolator(t),
	}
}

// Renderer is one visual style's handle onto the pipeline. It owns a private
// Interpolator so that styles with different attack/release constants never
// interfere. Query is the only method; renderers never call Update on the
// interpolator themselves.
//
// A Renderer is confined to the goroutine driving its display ticks.
type Renderer struct {
	bridge   *Bridge
	interp   *Interpolator
	lastSeen time.Time
	drained  bool
}

// Query polls the bridge for a sample it has not seen yet, feeds it to the
// interpolator, and evaluates at now. Safe to call far more often than
// samples arrive; between arrivals it keeps advancing the smoothed state on
// a finer time grid.
func (r *Renderer) Query(now time.Time) Frame {
	if r.bridge.Closed() {
		// Session over: steer the display to silence exactly once, then let
		// the normal release path fade it out.
		if !r.drained {
			r.interp.Update(Sample{Timestamp: now})
			r.drained = true
		}
		return r.interp.Evaluate(now)
	}

	s := r.bridge.Latest()
	if !s.Timestamp.IsZero() && s.Timestamp.After(r.lastSeen) {
		r.interp.Update(s)
		r.lastSeen = s.Timestamp
	}
	return r.interp.Evaluate(now)
}

// Reset clears the renderer's smoothing state, for when its visualization is
// hidden and later reattached.
func (r *Renderer) Reset() {
	r.interp.Reset()
	r.lastSeen = time.Time{}
	r.drained = false
}
