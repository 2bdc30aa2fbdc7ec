package level

import "go.uber.org/atomic"

// Bridge hands the most recent Sample from the real-time capture callback to
// any number of renderer-side readers. Publish is a single atomic pointer
// swap: it never blocks on reader progress and completes in bounded time.
// Readers always observe a whole Sample, never a mixture of two writes.
//
// Single writer (the capture callback), any number of readers. One Bridge
// lives per capture session.
type Bridge struct {
	latest *atomic.Pointer[Sample]
	closed *atomic.Bool
}

// NewBridge creates a Bridge holding no sample yet.
func NewBridge() *Bridge {
	return &Bridge{
		latest: atomic.NewPointer[Sample](nil),
		closed: atomic.NewBool(false),
	}
}

// Publish replaces the current sample. Producer side only.
func (b *Bridge) Publish(s Sample) {
	if b.closed.Load() {
		return
	}
	b.latest.Store(&s)
}

// Latest returns the most recently published Sample. Before the first
// publish, and after Close, it returns the zero Sample (silence).
func (b *Bridge) Latest() Sample {
	if b.closed.Load() {
		return Sample{}
	}
	p := b.latest.Load()
	if p == nil {
		return Sample{}
	}
	return *p
}

// Close tears the bridge down at the end of a capture session. Subsequent
// publishes are dropped and readers see silence.
func (b *Bridge) Close() {
	b.closed.Store(true)
	b.latest.Store(nil)
}

// Closed reports whether the owning capture session has ended.
func (b *Bridge) Closed() bool {
	return b.closed.Load()
}
