package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"spectro/internal/spectro"
	"spectro/pkg/bitint"
)

// Defaults and limits for the spectrogram engine.
const (
	DefaultFFTSize     = 2048
	DefaultMinFreq     = 48.0
	DefaultMaxFreq     = 13500.0
	DefaultSampleRate  = 44100.0
	DefaultCapacity    = 120
	DefaultSliceWidth  = 4
	DefaultSliceHeight = 480
	DefaultChannels    = 1
	DefaultDeviceID    = -1 // system default input device
	DefaultServeAddr   = "127.0.0.1:8080"

	MinSampleRate = 8000.0
	MaxSampleRate = 192000.0
)

// DefaultGradient runs dark to bright, roughly perceptual.
var DefaultGradient = []string{
	"#000000", "#2e0f54", "#721e6e", "#b01e6e", "#f95d3c", "#fdbf3f", "#ffffff",
}

// Config is the application configuration, loaded from YAML with
// SPECTRO_* environment overrides, then flag overrides on top.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	Audio       AudioConfig       `yaml:"audio"`
	Spectrogram SpectrogramConfig `yaml:"spectrogram"`
	Serve       ServeConfig       `yaml:"serve"`

	// One-off command selected on the CLI ("", "list", "render").
	Command    string `yaml:"-"`
	RenderFile string `yaml:"-"`
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	InputDevice   int     `yaml:"input_device"` // portaudio index, -1 for default
	SampleRate    float64 `yaml:"sample_rate"`
	Channels      int     `yaml:"channels"`
	LowLatency    bool    `yaml:"low_latency"`
	GateThreshold float64 `yaml:"gate_threshold"` // 0 disables the gate
}

// SpectrogramConfig holds the engine settings.
type SpectrogramConfig struct {
	FFTSize     int      `yaml:"fft_size"` // 1024, 2048 or 4096
	MinFreq     float64  `yaml:"min_freq"`
	MaxFreq     float64  `yaml:"max_freq"`
	Capacity    int      `yaml:"capacity"` // rolling window, in slices
	SliceWidth  int      `yaml:"slice_width"`
	SliceHeight int      `yaml:"slice_height"`
	Gradient    []string `yaml:"gradient"` // hex stops, quiet to loud
}

// ServeConfig holds the websocket transport settings.
type ServeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from path, or from "spectro.yaml" when path
// is empty and the file exists, falling back to built-in defaults.
// Environment overrides apply after the file, validation last.
func Load(path string) (*Config, error) {
	cfg := Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:   DefaultDeviceID,
			SampleRate:    DefaultSampleRate,
			Channels:      DefaultChannels,
			GateThreshold: 0,
		},
		Spectrogram: SpectrogramConfig{
			FFTSize:     DefaultFFTSize,
			MinFreq:     DefaultMinFreq,
			MaxFreq:     DefaultMaxFreq,
			Capacity:    DefaultCapacity,
			SliceWidth:  DefaultSliceWidth,
			SliceHeight: DefaultSliceHeight,
			Gradient:    append([]string(nil), DefaultGradient...),
		},
		Serve: ServeConfig{
			Enabled: false,
			Addr:    DefaultServeAddr,
		},
	}

	if path == "" {
		if _, err := os.Stat("spectro.yaml"); err == nil {
			path = "spectro.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks every bound the engine depends on, so bad values
// fail here instead of degrading silently downstream.
func (c *Config) Validate() error {
	s := &c.Spectrogram
	switch s.FFTSize {
	case 1024, 2048, 4096:
	default:
		if !bitint.IsPowerOfTwo(s.FFTSize) {
			return fmt.Errorf("spectrogram.fft_size %d is not a power of 2 (nearest: %d)",
				s.FFTSize, bitint.NextPowerOfTwo(s.FFTSize))
		}
		return fmt.Errorf("spectrogram.fft_size must be 1024, 2048 or 4096, got %d", s.FFTSize)
	}
	if err := c.Metadata().Validate(); err != nil {
		return err
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("spectrogram.capacity must be positive, got %d", s.Capacity)
	}
	if s.SliceWidth <= 0 || s.SliceHeight <= 0 {
		return fmt.Errorf("slice dimensions must be positive, got %dx%d", s.SliceWidth, s.SliceHeight)
	}
	if _, err := spectro.ParseGradient(s.Gradient...); err != nil {
		return fmt.Errorf("spectrogram.gradient: %w", err)
	}

	a := &c.Audio
	if a.SampleRate < MinSampleRate || a.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %g outside [%g, %g]", a.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if a.Channels < 1 || a.Channels > 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got %d", a.Channels)
	}
	if a.GateThreshold < 0 || a.GateThreshold > 1 {
		return fmt.Errorf("audio.gate_threshold %g outside [0, 1]", a.GateThreshold)
	}

	if c.Serve.Enabled && c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr must be set when serve is enabled")
	}
	return nil
}

// Metadata builds the engine metadata snapshot from the current
// settings.
func (c *Config) Metadata() spectro.Metadata {
	return spectro.Metadata{
		FFTSize:    c.Spectrogram.FFTSize,
		MinFreq:    c.Spectrogram.MinFreq,
		MaxFreq:    c.Spectrogram.MaxFreq,
		SampleRate: c.Audio.SampleRate,
	}
}

// ParseGradient builds the configured gradient.
func (c *Config) ParseGradient() (spectro.Gradient, error) {
	return spectro.ParseGradient(c.Spectrogram.Gradient...)
}

func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("SPECTRO_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("SPECTRO_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("SPECTRO_FFT_SIZE"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Spectrogram.FFTSize = n
		}
	}
	if val, ok := os.LookupEnv("SPECTRO_SERVE_ADDR"); ok {
		c.Serve.Enabled = true
		c.Serve.Addr = val
	}
}
