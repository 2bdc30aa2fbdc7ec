package audio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/soniq/levelviz/internal/fileops"
	"github.com/soniq/levelviz/internal/level"
	"github.com/soniq/levelviz/internal/logger"
	"github.com/soniq/levelviz/internal/waveform"
)

// Result is a completed recording: the WAV on disk plus the coarse loudness
// summary kept for instant redisplay.
type Result struct {
	Path     string
	Duration time.Duration
	Summary  waveform.Summary
}

// Recorder implements BlockSink: it accumulates the session's PCM and one
// loudness value per block, and finalizes both into a Result on Stop.
type Recorder struct {
	mu         sync.Mutex
	recording  bool
	cancelled  bool
	startTime  time.Time
	sampleRate int
	pcm        bytes.Buffer
	levels     *waveform.Accumulator
	fileOps    fileops.FileOps
	outputPath string
}

// NewRecorder creates a Recorder writing into the recordings directory, or
// into outputPath when it is non-empty.
func NewRecorder(sampleRate int, outputPath string) (*Recorder, error) {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file operations: %w", err)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return &Recorder{
		sampleRate: sampleRate,
		levels:     waveform.NewAccumulator(),
		fileOps:    fileOps,
		outputPath: outputPath,
	}, nil
}

// Start begins accumulating. Idempotent while already recording.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return
	}
	r.recording = true
	r.cancelled = false
	r.startTime = time.Now()
	r.pcm.Reset()
	r.levels = waveform.NewAccumulator()
	logger.Info("🎙️  Recording started")
}

// WriteBlock appends one captured block. Called from the capture callback;
// the critical section is a buffer append. Stop snapshots and encodes outside
// the lock, so the callback never waits on file I/O.
func (r *Recorder) WriteBlock(pcm []byte, s level.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.pcm.Write(pcm)
	r.levels.Add(s.RMS)
}

// Cancel discards the current recording without writing anything.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.recording = false
	r.cancelled = true
	logger.Debug("Recording cancelled, discarding audio data")
}

// Stop finalizes the recording: encodes the WAV, downsamples the waveform
// summary, and returns both. Returns (nil, nil) if nothing was recorded or
// the recording was cancelled.
func (r *Recorder) Stop() (*Result, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, nil
	}
	r.recording = false
	if r.cancelled || r.pcm.Len() == 0 {
		r.mu.Unlock()
		return nil, nil
	}
	// Snapshot under the lock; encoding happens outside it so a late
	// WriteBlock from the capture callback is never stalled on file I/O.
	raw := make([]byte, r.pcm.Len())
	copy(raw, r.pcm.Bytes())
	start := r.startTime
	levels := r.levels
	r.mu.Unlock()

	path := r.outputPath
	if path == "" {
		timestamp := start.Format("2006-01-02_15-04-05")
		path = filepath.Join(r.fileOps.GetRecordingsDir(), fmt.Sprintf("recording_%s.wav", timestamp))
	}

	if err := r.writeWAV(path, raw); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	summary := levels.Finalize(waveform.DefaultBuckets)
	logger.Infof("🎙️ Saved recording %s (%.1fs, %d summary buckets)", filepath.Base(path), duration.Seconds(), len(summary))

	return &Result{Path: path, Duration: duration, Summary: summary}, nil
}

func (r *Recorder) writeWAV(path string, raw []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}
	defer f.Close()

	data := make([]int, len(raw)/2)
	for i := range data {
		data[i] = int(int16(raw[2*i]) | int16(raw[2*i+1])<<8)
	}

	enc := wav.NewEncoder(f, r.sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: r.sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}
