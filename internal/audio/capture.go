// Package audio owns the microphone side of a session: the malgo capture
// device that drives the level pipeline, and the recorder that accumulates
// PCM for the on-disk WAV.
package audio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/soniq/levelviz/internal/level"
	"github.com/soniq/levelviz/internal/logger"
	"github.com/soniq/levelviz/internal/types"
)

// BlockSink receives each captured block alongside the Sample measured from
// it. WriteBlock is called from the capture callback; implementations must
// not retain pcm past the call.
type BlockSink interface {
	WriteBlock(pcm []byte, s level.Sample)
}

// Capture owns the malgo context and device for one microphone session. The
// hardware callback measures every block through the pipeline and forwards
// it to an optional sink.
type Capture struct {
	cfg      types.CaptureConfig
	pipeline *level.Pipeline
	sink     BlockSink
}

// NewCapture creates a capture session feeding pipeline. sink may be nil
// when nothing is being recorded to disk.
func NewCapture(cfg types.CaptureConfig, pipeline *level.Pipeline, sink BlockSink) *Capture {
	return &Capture{cfg: cfg, pipeline: pipeline, sink: sink}
}

// Run opens the capture device and streams until ctx is cancelled, then
// stops the device and closes the pipeline so renderers fade to silence.
func (c *Capture) Run(ctx context.Context) error {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(c.cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(c.cfg.BlockSize)
	deviceConfig.Alsa.NoMMap = 1

	if c.cfg.Device != "" {
		id, err := findCaptureDevice(mctx, c.cfg.Device)
		if err != nil {
			return err
		}
		deviceConfig.Capture.DeviceID = id.Pointer()
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(outputBuffer, inputBuffer []byte, frameCount uint32) {
			// Real-time path: measure, publish, hand off. No logging, no
			// waiting on consumers.
			s := c.pipeline.OnPCM16Block(inputBuffer, time.Now())
			if c.sink != nil {
				c.sink.WriteBlock(inputBuffer, s)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	logger.Debugf("Capture started: %d Hz, %d frames per block", c.cfg.SampleRate, c.cfg.BlockSize)

	<-ctx.Done()

	if err := device.Stop(); err != nil {
		logger.Warnf("Failed to stop capture device: %v", err)
	}
	c.pipeline.Close()
	logger.Debug("Capture stopped")
	return nil
}

// findCaptureDevice matches name as a case-insensitive substring against the
// available capture devices.
func findCaptureDevice(mctx *malgo.AllocatedContext, name string) (malgo.DeviceID, error) {
	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return malgo.DeviceID{}, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}

	want := strings.ToLower(name)
	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name()), want) {
			logger.Debugf("Using capture device %q", info.Name())
			return info.ID, nil
		}
	}
	return malgo.DeviceID{}, fmt.Errorf("no capture device matching %q", name)
}
