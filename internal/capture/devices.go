// SPDX-License-Identifier: MIT
// Package capture owns the PortAudio input side: device discovery and
// the callback stream that feeds buffers to the analysis processor.
package capture

import (
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
)

// DefaultDevice selects the system default input device.
const DefaultDevice = -1

// Initialize sets up the PortAudio subsystem. Must be called before
// any other capture function and paired with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate shuts down the PortAudio subsystem.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// InputDevice resolves a device index to its info. DefaultDevice (-1)
// resolves to the system default input device.
func InputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID == DefaultDevice {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default input device: %w", err)
		}
		return device, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	if deviceID < 0 || deviceID >= len(devices) {
		return nil, fmt.Errorf("invalid device ID: %d", deviceID)
	}
	return devices[deviceID], nil
}

// ListDevices writes one line per audio device: index, name, direction,
// channel counts, and default sample rate.
func ListDevices(w io.Writer) error {
	devices, err := portaudio.Devices()
	if err != nil {
		return fmt.Errorf("failed to enumerate devices: %w", err)
	}

	fmt.Fprintf(w, "\nAvailable audio devices\n\n")
	for i, device := range devices {
		direction := "unused"
		switch {
		case device.MaxInputChannels > 0 && device.MaxOutputChannels > 0:
			direction = "input/output"
		case device.MaxInputChannels > 0:
			direction = "input"
		case device.MaxOutputChannels > 0:
			direction = "output"
		}
		fmt.Fprintf(w, "[%d] %s (%s)\n", i, device.Name, direction)
		fmt.Fprintf(w, "    in: %d  out: %d  default rate: %.0f Hz\n",
			device.MaxInputChannels, device.MaxOutputChannels, device.DefaultSampleRate)
	}
	return nil
}
