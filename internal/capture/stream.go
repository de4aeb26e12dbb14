// SPDX-License-Identifier: MIT
package capture

import (
	"math"
	"runtime"
	"time"

	"github.com/gordonklaus/portaudio"

	"spectro/internal/analysis"
	applog "spectro/internal/log"
)

// Stream owns one PortAudio input stream feeding an analysis
// processor. The callback copies into pre-allocated buffers, applies
// an optional noise gate, downmixes to mono, and hands the buffer to
// the processor. No allocations on that path.
type Stream struct {
	proc     *analysis.Processor
	device   *portaudio.DeviceInfo
	stream   *portaudio.Stream
	latency  time.Duration
	channels int
	rate     float64

	input []int32 // raw interleaved callback copy
	mono  []int32 // downmixed processor input

	gateThreshold int32 // 0 disables the gate
}

// NewStream prepares a capture stream for the given device. frames per
// buffer follows the processor's input length. gateThreshold is
// normalized [0, 1]; 0 disables gating.
func NewStream(device *portaudio.DeviceInfo, channels int, rate float64, lowLatency bool, gateThreshold float64, proc *analysis.Processor) *Stream {
	latency := device.DefaultHighInputLatency
	if lowLatency {
		latency = device.DefaultLowInputLatency
	}
	frames := proc.InputLen()

	if gateThreshold < 0 {
		gateThreshold = 0
	}
	if gateThreshold > 1 {
		gateThreshold = 1
	}

	return &Stream{
		proc:          proc,
		device:        device,
		latency:       latency,
		channels:      channels,
		rate:          rate,
		input:         make([]int32, frames*channels),
		mono:          make([]int32, frames),
		gateThreshold: int32(gateThreshold * float64(math.MaxInt32)),
	}
}

// Start opens the PortAudio stream and begins delivering buffers to
// the processor.
func (s *Stream) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: s.channels,
			Device:   s.device,
			Latency:  s.latency,
		},
		FramesPerBuffer: s.proc.InputLen(),
		SampleRate:      s.rate,
	}

	stream, err := portaudio.OpenStream(params, s.processInput)
	if err != nil {
		return err
	}
	s.stream = stream

	if err := s.stream.Start(); err != nil {
		s.stream.Close()
		s.stream = nil
		return err
	}
	applog.Infof("capture: stream started on %q (%d ch, %.0f Hz, %d frames)",
		s.device.Name, s.channels, s.rate, s.proc.InputLen())
	return nil
}

// Stop halts and closes the stream. Safe to call when not started.
func (s *Stream) Stop() error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return err
	}
	if err := s.stream.Close(); err != nil {
		return err
	}
	s.stream = nil
	return nil
}

// processInput is the real-time callback. Pre-allocated buffers only.
func (s *Stream) processInput(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	copy(s.input, in)

	if s.gateThreshold > 0 && maxAmplitude(s.input) <= s.gateThreshold {
		return // below the gate, skip the tick entirely
	}

	buf := s.input
	if s.channels > 1 {
		frames := len(s.mono)
		for i := range frames {
			if i*s.channels < len(s.input) {
				s.mono[i] = s.input[i*s.channels]
			} else {
				s.mono[i] = 0
			}
		}
		buf = s.mono
	}
	s.proc.Process(buf)
}

// maxAmplitude scans for the peak absolute sample, branchless in the
// loop body.
func maxAmplitude(buf []int32) int32 {
	var peak int32
	for i := range buf {
		sample := buf[i]
		mask := sample >> 31
		amplitude := (sample ^ mask) - mask
		diff := amplitude - peak
		peak += (diff & (diff >> 31)) ^ diff
	}
	return peak
}
