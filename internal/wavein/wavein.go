// SPDX-License-Identifier: MIT
// Package wavein feeds WAV files through the analysis processor, so a
// spectrogram can be rendered offline without an input device.
package wavein

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"spectro/internal/analysis"
	applog "spectro/internal/log"
)

// Info returns the sample rate and channel count of a WAV file, for
// building engine metadata before feeding.
func Info(path string) (sampleRate float64, channels int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return 0, 0, fmt.Errorf("%s is not a valid WAV file", path)
	}
	return float64(dec.SampleRate), int(dec.NumChans), nil
}

// Feed decodes path and drives the processor one input buffer at a
// time, sequentially on the calling goroutine. Multi-channel files use
// the first channel; the final short buffer is zero-padded.
func Feed(path string, proc *analysis.Processor) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return fmt.Errorf("%s is not a valid WAV file", path)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		channels = 1
	}
	// Decoded samples arrive at the file's bit depth; shift up to the
	// int32 full-scale convention the processor expects.
	shift := 32 - int(dec.BitDepth)
	if shift < 0 || shift > 24 {
		return fmt.Errorf("unsupported bit depth %d in %s", dec.BitDepth, path)
	}

	frames := proc.InputLen()
	pcm := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
		Data:   make([]int, frames*channels),
	}
	out := make([]int32, frames)

	ticks := 0
	for {
		n, err := dec.PCMBuffer(pcm)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		if n == 0 {
			applog.Debugf("wavein: fed %d ticks from %s", ticks, path)
			return nil
		}
		got := n / channels
		for i := range out {
			if i < got {
				out[i] = int32(pcm.Data[i*channels]) << shift
			} else {
				out[i] = 0
			}
		}
		proc.Process(out)
		ticks++
	}
}
